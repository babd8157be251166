package schedule

import (
	"testing"

	"github.com/meet-when/shiftsched/internal/timeutil"
)

func validSnapshot() (Snapshot, Window) {
	snap := Snapshot{
		Persons:         []Person{{ID: "p1", GroupID: "g"}},
		Groups:          []Group{{ID: "g"}},
		Templates:       []ShiftTemplate{{ID: "DAY", StartOfDaySeconds: 0, DurationSeconds: 3600, Weekdays: weekdays(0), RequiredCount: 1}},
		GroupShiftLinks: []GroupShiftLink{{Group: "g", Template: "DAY"}},
	}
	window := Window{Start: 0, End: timeutil.Instant(1 * timeutil.SecondsPerDay), StartWeekday: 0}
	return snap, window
}

func TestValidate_Accepts(t *testing.T) {
	snap, window := validSnapshot()
	if warnings, err := Validate(snap, window, Options{}); err != nil {
		t.Fatalf("Validate: %v (warnings %v)", err, warnings)
	}
}

func TestValidate_RejectsUnknownGroup(t *testing.T) {
	snap, window := validSnapshot()
	snap.Persons[0].GroupID = "nonexistent"

	_, err := Validate(snap, window, Options{})
	if err == nil {
		t.Fatal("expected error for unknown group reference")
	}
	if _, ok := err.(*SnapshotInvalid); !ok {
		t.Errorf("error = %T, want *SnapshotInvalid", err)
	}
}

func TestValidate_RejectsWindowNotWholeDays(t *testing.T) {
	snap, window := validSnapshot()
	window.End = window.Start + 3600

	_, err := Validate(snap, window, Options{})
	if err == nil {
		t.Fatal("expected error for non-whole-day window")
	}
}

func TestValidate_RejectsZeroRequiredCount(t *testing.T) {
	snap, window := validSnapshot()
	snap.Templates[0].RequiredCount = 0

	_, err := Validate(snap, window, Options{})
	if err == nil {
		t.Fatal("expected error for RequiredCount < 1")
	}
}

func TestValidate_RejectsNegativeSolverWorkers(t *testing.T) {
	snap, window := validSnapshot()

	_, err := Validate(snap, window, Options{SolverWorkers: -1})
	if err == nil {
		t.Fatal("expected error for negative SolverWorkers")
	}
	if _, ok := err.(*ConfigurationInvalid); !ok {
		t.Errorf("error = %T, want *ConfigurationInvalid", err)
	}
}

func TestValidate_SelfConstraintWarnsNotRejects(t *testing.T) {
	snap, window := validSnapshot()
	snap.PairwiseConstraints = []PairwiseConstraint{{From: "DAY", To: "DAY", K: 0}}

	warnings, err := Validate(snap, window, Options{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for a self (From==To, K==0) constraint")
	}
}

func TestValidate_RejectsUnknownPairwiseConstraintTemplate(t *testing.T) {
	snap, window := validSnapshot()
	snap.PairwiseConstraints = []PairwiseConstraint{{From: "DAY", To: "GHOST", K: 0}}

	_, err := Validate(snap, window, Options{})
	if err == nil {
		t.Fatal("expected error for pairwise constraint referencing unknown template")
	}
}
