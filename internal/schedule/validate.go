package schedule

import (
	"fmt"

	"github.com/meet-when/shiftsched/internal/timeutil"
	"github.com/samber/lo"
)

// Validate checks referential integrity and field ranges on a
// Snapshot, Window and Options triple. All failures are reported
// eagerly via the returned error (a *SnapshotInvalid or
// *ConfigurationInvalid) before any model construction is attempted,
// per the error-handling contract: no silent recovery.
//
// Non-fatal oddities (a supplied self-constraint (s,s,0), which is
// trivially implied and will be elided rather than rejected) are
// reported as warnings instead.
func Validate(snap Snapshot, window Window, opts Options) (warnings []string, err error) {
	if opts.SolverWorkers < 0 {
		return nil, &ConfigurationInvalid{Reason: "solver_workers must be >= 0"}
	}
	if opts.DeadlineSeconds != nil && *opts.DeadlineSeconds <= 0 {
		return nil, &ConfigurationInvalid{Reason: "deadline_seconds must be > 0 when set"}
	}
	if opts.MaxHoursPer2Days != nil && *opts.MaxHoursPer2Days < 0 {
		return nil, &ConfigurationInvalid{Reason: "max_hours_per_2_days must be >= 0 when set"}
	}

	if window.End < window.Start {
		return nil, &SnapshotInvalid{Reason: "window must have end >= start"}
	}
	span := int64(window.End - window.Start)
	if span%timeutil.SecondsPerDay != 0 {
		return nil, &SnapshotInvalid{Reason: "window span must be a whole number of days"}
	}

	personIDs := lo.SliceToMap(snap.Persons, func(p Person) (PersonID, struct{}) { return p.ID, struct{}{} })
	groupIDs := lo.SliceToMap(snap.Groups, func(g Group) (GroupID, struct{}) { return g.ID, struct{}{} })
	templateIDs := lo.SliceToMap(snap.Templates, func(s ShiftTemplate) (TemplateID, struct{}) { return s.ID, struct{}{} })

	for _, p := range snap.Persons {
		if _, ok := groupIDs[p.GroupID]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("person %q references unknown group %q", p.ID, p.GroupID)}
		}
	}

	for _, t := range snap.Templates {
		if t.RequiredCount < 1 {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("template %q has required_count < 1", t.ID)}
		}
		if len(t.Weekdays) == 0 {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("template %q has no weekdays", t.ID)}
		}
		if t.StartOfDaySeconds < 0 || t.StartOfDaySeconds >= timeutil.SecondsPerDay {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("template %q start_of_day_seconds out of [0,86400)", t.ID)}
		}
		if t.DurationSeconds <= 0 {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("template %q duration_seconds must be > 0", t.ID)}
		}
	}

	for _, l := range snap.GroupShiftLinks {
		if _, ok := groupIDs[l.Group]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("group_shift_link references unknown group %q", l.Group)}
		}
		if _, ok := templateIDs[l.Template]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("group_shift_link references unknown template %q", l.Template)}
		}
	}

	for _, r := range snap.Requests {
		if _, ok := personIDs[r.Person]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("request references unknown person %q", r.Person)}
		}
	}

	for _, c := range snap.PairwiseConstraints {
		if _, ok := templateIDs[c.From]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("pairwise constraint references unknown template %q", c.From)}
		}
		if _, ok := templateIDs[c.To]; !ok {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("pairwise constraint references unknown template %q", c.To)}
		}
		if c.K < 0 {
			return nil, &SnapshotInvalid{Reason: fmt.Sprintf("pairwise constraint %q->%q has within_last_shifts < 0", c.From, c.To)}
		}
		if c.From == c.To && c.K == 0 {
			warnings = append(warnings, fmt.Sprintf("self-constraint (%s,%s,0) is trivially implied and will be elided", c.From, c.To))
		}
	}

	return warnings, nil
}
