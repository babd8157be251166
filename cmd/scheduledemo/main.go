// Command scheduledemo loads a roster from the configured store (or a
// small in-memory fixture) and prints the schedule the two-phase
// solver produces for one scheduling window.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/meet-when/shiftsched/internal/config"
	"github.com/meet-when/shiftsched/internal/cpsat"
	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/solver"
	"github.com/meet-when/shiftsched/internal/store"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

func main() {
	days := flag.Int("days", 7, "number of days in the scheduling window")
	fixture := flag.Bool("fixture", false, "use the built-in in-memory fixture instead of the configured store")
	seed := flag.Bool("seed", false, "seed the configured store with the fixture roster, then exit")
	autoReconcile := flag.Bool("auto-reconcile", true, "derive pairwise constraints from template overlap instead of requiring them in the store")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := seedStore(ctx, cfg); err != nil {
			log.Fatalf("seed store: %v", err)
		}
		return
	}

	snap, err := loadSnapshot(ctx, cfg, *fixture)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	window := schedule.Window{
		Start:        0,
		End:          timeutil.Instant(*days) * timeutil.SecondsPerDay,
		StartWeekday: 1, // Monday
	}

	opts := schedule.Options{
		SolverWorkers: cfg.Solver.Workers,
		WeekdayOrigin: originFromConfig(cfg),
	}
	if cfg.App.MaxHoursPer2Days > 0 {
		hoursCap := cfg.App.MaxHoursPer2Days
		opts.MaxHoursPer2Days = &hoursCap
	}
	if cfg.Solver.DeadlineSeconds > 0 {
		deadline := cfg.Solver.DeadlineSeconds
		opts.DeadlineSeconds = &deadline
	}

	outcome, warnings, err := schedule.Solve(ctx, func() solver.Capability { return cpsat.New() }, snap, window, opts, *autoReconcile)
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}
	if err != nil {
		log.Fatalf("solve: %v", err)
	}

	printOutcome(outcome)
}

func originFromConfig(cfg *config.Config) timeutil.WeekdayOrigin {
	if cfg.App.WeekdayOriginISO {
		return timeutil.MondayOrigin
	}
	return timeutil.SundayOrigin
}

// seedStore writes the fixture roster into the configured store, for
// a first run against an empty database. Time-off requests have no
// externally-assigned identifier of their own, so one is minted here
// with uuid.New(), the same way every other primary key in this
// codebase's ancestry gets minted at the call site that needs one.
func seedStore(ctx context.Context, cfg *config.Config) error {
	s, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	snap := fixtureSnapshot()
	for _, g := range snap.Groups {
		if err := s.PutGroup(ctx, g); err != nil {
			return fmt.Errorf("seed group %q: %w", g.ID, err)
		}
	}
	for _, p := range snap.Persons {
		if err := s.PutPerson(ctx, p); err != nil {
			return fmt.Errorf("seed person %q: %w", p.ID, err)
		}
	}
	for _, t := range snap.Templates {
		if err := s.PutTemplate(ctx, t); err != nil {
			return fmt.Errorf("seed template %q: %w", t.ID, err)
		}
	}
	for _, l := range snap.GroupShiftLinks {
		if err := s.PutGroupShiftLink(ctx, l); err != nil {
			return fmt.Errorf("seed group shift link %q->%q: %w", l.Group, l.Template, err)
		}
	}
	for _, r := range fixtureRequests() {
		if err := s.PutTimeOffRequest(ctx, uuid.New().String(), r); err != nil {
			return fmt.Errorf("seed time off request for %q: %w", r.Person, err)
		}
	}

	log.Printf("seeded %s store with %d persons, %d templates", cfg.Database.Driver, len(snap.Persons), len(snap.Templates))
	return nil
}

// fixtureRequests is the demo roster's sole time-off request, kept
// separate from fixtureSnapshot since the in-memory solve path builds
// Snapshot.Requests directly while the seed path needs per-request
// IDs to hand the store.
func fixtureRequests() []schedule.TimeOffRequest {
	return []schedule.TimeOffRequest{
		{Person: "bob", Start: 2 * timeutil.SecondsPerDay, End: 3 * timeutil.SecondsPerDay, Description: "doctor's appointment"},
	}
}

func loadSnapshot(ctx context.Context, cfg *config.Config, useFixture bool) (schedule.Snapshot, error) {
	if useFixture {
		return fixtureSnapshot(), nil
	}

	s, err := store.Open(cfg.Database)
	if err != nil {
		return schedule.Snapshot{}, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	return s.Snapshot(ctx)
}

func printOutcome(outcome schedule.Outcome) {
	fmt.Printf("phase: %v  phase1 objective: %d  phase2 objective: %d\n",
		outcome.Phase, outcome.Phase1Objective, outcome.Phase2Objective)

	byOccurrence := make(map[schedule.ScheduledOccurrence][]schedule.PersonID)
	for _, a := range outcome.Assignments {
		byOccurrence[a.Occurrence] = append(byOccurrence[a.Occurrence], a.Person)
	}
	for _, occ := range outcome.Occurrences {
		fmt.Printf("day %d  %s  [%d, %d)  assigned: %v\n",
			occ.Day, occ.Template, occ.Start, occ.End, byOccurrence[occ])
	}
}

// fixtureSnapshot is a small, self-contained roster used when no
// database is configured, so the demo runs with zero setup.
func fixtureSnapshot() schedule.Snapshot {
	weekdays := func(ws ...timeutil.Weekday) map[timeutil.Weekday]struct{} {
		out := make(map[timeutil.Weekday]struct{}, len(ws))
		for _, w := range ws {
			out[w] = struct{}{}
		}
		return out
	}

	return schedule.Snapshot{
		Groups: []schedule.Group{{ID: "nurses"}},
		Persons: []schedule.Person{
			{ID: "alice", GroupID: "nurses"},
			{ID: "bob", GroupID: "nurses"},
		},
		Templates: []schedule.ShiftTemplate{
			{
				ID:                "day",
				StartOfDaySeconds: 8 * 3600,
				DurationSeconds:   8 * 3600,
				Weekdays:          weekdays(1, 2, 3, 4, 5),
				RequiredCount:     1,
				Description:       "weekday day shift",
			},
			{
				ID:                "night",
				StartOfDaySeconds: 20 * 3600,
				DurationSeconds:   8 * 3600,
				Weekdays:          weekdays(1, 2, 3, 4, 5),
				RequiredCount:     1,
				Description:       "weekday night shift",
			},
		},
		GroupShiftLinks: []schedule.GroupShiftLink{
			{Group: "nurses", Template: "day"},
			{Group: "nurses", Template: "night"},
		},
		Requests: fixtureRequests(),
	}
}
