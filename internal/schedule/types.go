// Package schedule holds the domain snapshot consumed by the core, the
// Boolean/integer model builder, and the Solve entry point that ties
// the Overlap Analyzer, Request Mapper, Model Builder and Two-Phase
// Solver Driver together.
package schedule

import (
	"github.com/meet-when/shiftsched/internal/timeutil"
)

// PersonID, GroupID and TemplateID are opaque, externally-assigned
// identifiers. The core never mints these — identifier generation is
// an external collaborator's concern.
type (
	PersonID   string
	GroupID    string
	TemplateID string
)

// Person is a member of the roster.
type Person struct {
	ID      PersonID
	GroupID GroupID
}

// Group defines the eligibility partition.
type Group struct {
	ID GroupID
}

// ShiftTemplate is a recurring shift specification.
type ShiftTemplate struct {
	ID                TemplateID
	StartOfDaySeconds int // [0, 86400)
	DurationSeconds   int // > 0, may exceed 86400
	Weekdays          map[timeutil.Weekday]struct{}
	RequiredCount     int // >= 1
	Description       string
}

// GroupShiftLink grants every person in Group eligibility for Template.
type GroupShiftLink struct {
	Group    GroupID
	Template TemplateID
}

// PairwiseConstraint is a directed temporal exclusion between two
// templates: assignment to From on day d forbids To on days
// [d, d+K] (or [d+1, d+K] when From == To).
type PairwiseConstraint struct {
	From TemplateID
	To   TemplateID
	K    int // within_last_shifts, >= 0
}

// TimeOffRequest is a person's closed-open unavailability interval,
// expressed in the same naive wall-clock seconds as the window.
type TimeOffRequest struct {
	Person      PersonID
	Start       timeutil.Instant
	End         timeutil.Instant
	Description string
}

// Window is the scheduling horizon [Start, End) in whole days.
type Window struct {
	Start        timeutil.Instant
	End          timeutil.Instant
	StartWeekday timeutil.Weekday // weekday of day index 0
}

// Days returns D, the number of whole days in the window.
func (w Window) Days() int {
	return int((w.End - w.Start) / timeutil.SecondsPerDay)
}

// Snapshot is the read-only entity graph the core consumes for one
// Solve call. It is never mutated and is safe to reuse across
// concurrent Solve calls on independent solver instances.
type Snapshot struct {
	Persons             []Person
	Groups              []Group
	Templates           []ShiftTemplate
	GroupShiftLinks     []GroupShiftLink
	Requests            []TimeOffRequest
	PairwiseConstraints []PairwiseConstraint
}

// Violation identifies a (person, day, template) triple that a
// TimeOffRequest collides with; the set of these is the Request
// Mapper's output R, the Phase-2 minimization target.
type Violation struct {
	Person   PersonID
	Day      int
	Template TemplateID
}

// ScheduledOccurrence is one (template, day) instantiation for which
// RequiredCount > 0 members are assigned.
type ScheduledOccurrence struct {
	Template TemplateID
	Day      int
	Start    timeutil.Instant
	End      timeutil.Instant
}

// Assignment pairs a person with an occurrence.
type Assignment struct {
	Person     PersonID
	Occurrence ScheduledOccurrence
}

// Options configures a Solve call.
type Options struct {
	MaxHoursPer2Days *int // nil disables the optional workload cap
	SolverWorkers    int
	DeadlineSeconds  *float64 // nil means no deadline
	// WeekdayOrigin is carried on Options, but Solve does not read it:
	// Window.StartWeekday and template weekdays are always taken in the
	// fixed 0=Sunday encoding.
	WeekdayOrigin timeutil.WeekdayOrigin
}
