// Package requests implements the Request Mapper (§4.3): expanding
// each time-off request into the set of (person, day, template)
// triples it collides with inside the scheduling window.
package requests

import (
	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

// Map expands every request in reqs into the violating triples it
// overlaps within window, given catalog. Weekdays are read in the fixed
// 0=Sunday encoding, counting from window.StartWeekday. The mapper
// never forbids assignment; its output is only the
// soft-penalty index R minimized in Phase 2.
func Map(catalog []schedule.ShiftTemplate, reqs []schedule.TimeOffRequest, window schedule.Window) map[schedule.Violation]struct{} {
	out := make(map[schedule.Violation]struct{})
	days := window.Days()

	for _, req := range reqs {
		clippedStart := req.Start
		if clippedStart < window.Start {
			clippedStart = window.Start
		}
		clippedEnd := req.End
		if clippedEnd > window.End {
			clippedEnd = window.End
		}
		if clippedStart >= clippedEnd {
			continue
		}

		for d := 0; d < days; d++ {
			weekday := timeutil.WeekdayForDay(window.StartWeekday, d)
			for _, tmpl := range catalog {
				if _, active := tmpl.Weekdays[weekday]; !active {
					continue
				}
				start, end := timeutil.InstantOf(d, tmpl.StartOfDaySeconds, tmpl.DurationSeconds)
				start += window.Start
				end += window.Start

				lo := max64(int64(start), int64(clippedStart))
				hi := min64(int64(end), int64(clippedEnd))
				if lo < hi {
					out[schedule.Violation{Person: req.Person, Day: d, Template: tmpl.ID}] = struct{}{}
				}
			}
		}
	}

	return out
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
