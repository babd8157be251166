package requests

import (
	"testing"

	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

func days(ws ...timeutil.Weekday) map[timeutil.Weekday]struct{} {
	m := make(map[timeutil.Weekday]struct{}, len(ws))
	for _, w := range ws {
		m[w] = struct{}{}
	}
	return m
}

func TestMap_DirectHit(t *testing.T) {
	tmpl := schedule.ShiftTemplate{ID: "DAY", StartOfDaySeconds: 8 * 3600, DurationSeconds: 8 * 3600, Weekdays: days(1), RequiredCount: 1}
	window := schedule.Window{Start: 0, End: 7 * timeutil.SecondsPerDay, StartWeekday: 0}
	req := schedule.TimeOffRequest{Person: "p1", Start: timeutil.Instant(1*timeutil.SecondsPerDay + 9*3600), End: timeutil.Instant(1*timeutil.SecondsPerDay + 10*3600)}

	got := Map([]schedule.ShiftTemplate{tmpl}, []schedule.TimeOffRequest{req}, window)
	want := schedule.Violation{Person: "p1", Day: 1, Template: "DAY"}
	if _, ok := got[want]; !ok || len(got) != 1 {
		t.Fatalf("got %+v, want exactly {%+v}", got, want)
	}
}

func TestMap_NoOverlapOutsideRequestWindow(t *testing.T) {
	tmpl := schedule.ShiftTemplate{ID: "DAY", StartOfDaySeconds: 8 * 3600, DurationSeconds: 8 * 3600, Weekdays: days(1), RequiredCount: 1}
	window := schedule.Window{Start: 0, End: 7 * timeutil.SecondsPerDay, StartWeekday: 0}
	// Request sits entirely before the template's start that day.
	req := schedule.TimeOffRequest{Person: "p1", Start: timeutil.Instant(1 * timeutil.SecondsPerDay), End: timeutil.Instant(1*timeutil.SecondsPerDay + 3600)}

	got := Map([]schedule.ShiftTemplate{tmpl}, []schedule.TimeOffRequest{req}, window)
	if len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestMap_ClipsToWindow(t *testing.T) {
	tmpl := schedule.ShiftTemplate{ID: "DAY", StartOfDaySeconds: 0, DurationSeconds: 3600, Weekdays: days(0, 1, 2, 3, 4, 5, 6), RequiredCount: 1}
	window := schedule.Window{Start: timeutil.Instant(timeutil.SecondsPerDay), End: timeutil.Instant(2 * timeutil.SecondsPerDay), StartWeekday: 0}
	// Request starts well before the window; only the part inside the
	// window (day 0 of the window) should register.
	req := schedule.TimeOffRequest{Person: "p1", Start: 0, End: timeutil.Instant(2 * timeutil.SecondsPerDay)}

	got := Map([]schedule.ShiftTemplate{tmpl}, []schedule.TimeOffRequest{req}, window)
	want := schedule.Violation{Person: "p1", Day: 0, Template: "DAY"}
	if _, ok := got[want]; !ok || len(got) != 1 {
		t.Fatalf("got %+v, want exactly {%+v}", got, want)
	}
}

func TestMap_InactiveWeekdaySkipped(t *testing.T) {
	tmpl := schedule.ShiftTemplate{ID: "DAY", StartOfDaySeconds: 8 * 3600, DurationSeconds: 8 * 3600, Weekdays: days(2), RequiredCount: 1}
	window := schedule.Window{Start: 0, End: 7 * timeutil.SecondsPerDay, StartWeekday: 0}
	req := schedule.TimeOffRequest{Person: "p1", Start: timeutil.Instant(1*timeutil.SecondsPerDay + 9*3600), End: timeutil.Instant(1*timeutil.SecondsPerDay + 10*3600)}

	got := Map([]schedule.ShiftTemplate{tmpl}, []schedule.TimeOffRequest{req}, window)
	if len(got) != 0 {
		t.Errorf("got %+v, want none (template not active on day 1's weekday)", got)
	}
}

func TestMap_MultiplePersonsAndDays(t *testing.T) {
	tmpl := schedule.ShiftTemplate{ID: "DAY", StartOfDaySeconds: 8 * 3600, DurationSeconds: 8 * 3600, Weekdays: days(0, 1, 2, 3, 4, 5, 6), RequiredCount: 1}
	window := schedule.Window{Start: 0, End: 3 * timeutil.SecondsPerDay, StartWeekday: 0}
	reqs := []schedule.TimeOffRequest{
		{Person: "p1", Start: timeutil.Instant(9 * 3600), End: timeutil.Instant(10 * 3600)},
		{Person: "p2", Start: timeutil.Instant(1*timeutil.SecondsPerDay + 9*3600), End: timeutil.Instant(1*timeutil.SecondsPerDay + 10*3600)},
	}

	got := Map([]schedule.ShiftTemplate{tmpl}, reqs, window)
	if len(got) != 2 {
		t.Fatalf("got %+v, want 2 entries", got)
	}
	if _, ok := got[(schedule.Violation{Person: "p1", Day: 0, Template: "DAY"})]; !ok {
		t.Errorf("missing p1/day0 violation: %+v", got)
	}
	if _, ok := got[(schedule.Violation{Person: "p2", Day: 1, Template: "DAY"})]; !ok {
		t.Errorf("missing p2/day1 violation: %+v", got)
	}
}
