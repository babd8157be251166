package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

func setupTestStore(t *testing.T, driver string) *Store {
	t.Helper()
	switch driver {
	case "sqlite":
		s, err := OpenSQLite(":memory:")
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	case "postgres":
		if !isPostgresAvailable(t) {
			t.Skip("postgres not available")
		}
		s, err := open("postgres", postgresTestDSN())
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	default:
		t.Fatalf("unknown driver %q", driver)
		return nil
	}
}

func isPostgresAvailable(t *testing.T) bool {
	t.Helper()
	db, err := sql.Open("postgres", postgresTestDSN())
	if err != nil {
		return false
	}
	defer db.Close()
	return db.Ping() == nil
}

func postgresTestDSN() string {
	if dsn := os.Getenv("SHIFTSCHED_TEST_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	return "host=localhost port=5432 user=shiftsched password=shiftsched dbname=shiftsched_test sslmode=disable"
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			s := setupTestStore(t, driver)
			ctx := context.Background()

			if err := s.PutGroup(ctx, schedule.Group{ID: "nurses"}); err != nil {
				t.Fatalf("PutGroup: %v", err)
			}
			if err := s.PutPerson(ctx, schedule.Person{ID: "alice", GroupID: "nurses"}); err != nil {
				t.Fatalf("PutPerson: %v", err)
			}
			template := schedule.ShiftTemplate{
				ID:                "day",
				StartOfDaySeconds: 8 * 3600,
				DurationSeconds:   8 * 3600,
				Weekdays:          map[timeutil.Weekday]struct{}{1: {}, 2: {}}, // Monday, Tuesday
				RequiredCount:     1,
				Description:       "day shift",
			}
			if err := s.PutTemplate(ctx, template); err != nil {
				t.Fatalf("PutTemplate: %v", err)
			}
			if err := s.PutGroupShiftLink(ctx, schedule.GroupShiftLink{Group: "nurses", Template: "day"}); err != nil {
				t.Fatalf("PutGroupShiftLink: %v", err)
			}
			if err := s.PutPairwiseConstraint(ctx, schedule.PairwiseConstraint{From: "day", To: "day", K: 1}); err != nil {
				t.Fatalf("PutPairwiseConstraint: %v", err)
			}
			req := schedule.TimeOffRequest{Person: "alice", Start: 1000, End: 2000, Description: "vacation"}
			if err := s.PutTimeOffRequest(ctx, "req-1", req); err != nil {
				t.Fatalf("PutTimeOffRequest: %v", err)
			}

			snap, err := s.Snapshot(ctx)
			if err != nil {
				t.Fatalf("Snapshot: %v", err)
			}

			if len(snap.Groups) != 1 || snap.Groups[0].ID != "nurses" {
				t.Errorf("Groups = %+v", snap.Groups)
			}
			if len(snap.Persons) != 1 || snap.Persons[0].ID != "alice" {
				t.Errorf("Persons = %+v", snap.Persons)
			}
			if len(snap.Templates) != 1 {
				t.Fatalf("Templates = %+v", snap.Templates)
			}
			got := snap.Templates[0]
			if got.RequiredCount != 1 || got.StartOfDaySeconds != 8*3600 {
				t.Errorf("template fields = %+v", got)
			}
			if len(got.Weekdays) != 2 {
				t.Errorf("template weekdays = %+v, want 2 entries", got.Weekdays)
			}
			if len(snap.GroupShiftLinks) != 1 {
				t.Errorf("GroupShiftLinks = %+v", snap.GroupShiftLinks)
			}
			if len(snap.PairwiseConstraints) != 1 || snap.PairwiseConstraints[0].K != 1 {
				t.Errorf("PairwiseConstraints = %+v", snap.PairwiseConstraints)
			}
			if len(snap.Requests) != 1 || snap.Requests[0].Person != "alice" {
				t.Errorf("Requests = %+v", snap.Requests)
			}
		})
	}
}

func TestStore_PutTemplateReplacesWeekdays(t *testing.T) {
	s := setupTestStore(t, "sqlite")
	ctx := context.Background()

	template := schedule.ShiftTemplate{
		ID:                "night",
		StartOfDaySeconds: 0,
		DurationSeconds:   3600,
		Weekdays:          map[timeutil.Weekday]struct{}{1: {}}, // Monday
		RequiredCount:     1,
	}
	if err := s.PutTemplate(ctx, template); err != nil {
		t.Fatalf("PutTemplate: %v", err)
	}
	template.Weekdays = map[timeutil.Weekday]struct{}{5: {}, 6: {}} // Friday, Saturday
	if err := s.PutTemplate(ctx, template); err != nil {
		t.Fatalf("PutTemplate (update): %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Templates) != 1 {
		t.Fatalf("Templates = %+v", snap.Templates)
	}
	if len(snap.Templates[0].Weekdays) != 2 {
		t.Errorf("Weekdays = %+v, want the replaced set of 2", snap.Templates[0].Weekdays)
	}
	if _, ok := snap.Templates[0].Weekdays[1]; ok {
		t.Error("Monday should have been replaced, not merged")
	}
}
