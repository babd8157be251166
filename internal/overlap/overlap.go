// Package overlap derives the pairwise temporal interaction
// constraints between shift templates: same-day overlaps and
// cross-midnight spillovers.
package overlap

import (
	"github.com/meet-when/shiftsched/internal/schedule"
	"github.com/meet-when/shiftsched/internal/timeutil"
	"github.com/samber/lo"
)

// Analyze derives the set of (from, to, k) pairwise constraints
// implied by a catalog of shift templates. It is a pure function of
// its input: calling it twice on the same catalog yields the same set.
func Analyze(templates []schedule.ShiftTemplate) []schedule.PairwiseConstraint {
	var out []schedule.PairwiseConstraint

	for i, a := range templates {
		for j, b := range templates {
			if i == j {
				continue
			}
			if i < j && sameDayOverlap(a, b) {
				out = append(out,
					schedule.PairwiseConstraint{From: a.ID, To: b.ID, K: 0},
					schedule.PairwiseConstraint{From: b.ID, To: a.ID, K: 0},
				)
			}
			if k, ok := spilloverInto(a, b); ok {
				out = append(out, schedule.PairwiseConstraint{From: a.ID, To: b.ID, K: k})
			}
		}
	}

	return dedup(out)
}

// Reconcile merges freshly analyzed constraints into an existing
// external registry: missing triples are created, mismatched K values
// are updated, everything else is left unchanged. Precise merge
// semantics beyond this are out of the core's contract.
func Reconcile(existing []schedule.PairwiseConstraint, templates []schedule.ShiftTemplate) []schedule.PairwiseConstraint {
	derived := Analyze(templates)
	byPair := make(map[[2]schedule.TemplateID]int, len(existing))
	result := append([]schedule.PairwiseConstraint(nil), existing...)
	for i, c := range result {
		byPair[[2]schedule.TemplateID{c.From, c.To}] = i
	}

	for _, d := range derived {
		key := [2]schedule.TemplateID{d.From, d.To}
		if idx, ok := byPair[key]; ok {
			result[idx].K = d.K
		} else {
			byPair[key] = len(result)
			result = append(result, d)
		}
	}
	return result
}

func sameDayOverlap(a, b schedule.ShiftTemplate) bool {
	for w := range a.Weekdays {
		if _, ok := b.Weekdays[w]; !ok {
			continue
		}
		if timeutil.Overlap(a.StartOfDaySeconds, a.DurationSeconds, b.StartOfDaySeconds, b.DurationSeconds) {
			return true
		}
	}
	return false
}

// spilloverInto reports the largest contiguous prefix of spillover
// offsets (starting at 1) for which `a` spilling past midnight
// collides with `b`'s start on the following day(s), encoding
// multi-midnight spillovers as a single (a, b, k) covering offsets
// 1..k. A qualifying offset beyond a gap in the prefix is not
// modeled; in practice spillover offsets beyond 2-3 days are
// vanishingly rare for shift catalogs with weekly-recurring weekdays.
func spilloverInto(a, b schedule.ShiftTemplate) (k int, ok bool) {
	offsets := timeutil.SpilloverOffsets(a.StartOfDaySeconds, a.DurationSeconds)
	for _, j := range offsets {
		if j != k+1 {
			break
		}
		spill := timeutil.SpillAmount(a.StartOfDaySeconds, a.DurationSeconds, j)
		if !anySuccessorWeekday(a.Weekdays, b.Weekdays, j) {
			break
		}
		if b.StartOfDaySeconds >= spill {
			break
		}
		k = j
	}
	return k, k > 0
}

func anySuccessorWeekday(aDays, bDays map[timeutil.Weekday]struct{}, offset int) bool {
	for w := range aDays {
		succ := w
		for i := 0; i < offset; i++ {
			succ = timeutil.NextWeekday(succ)
		}
		if _, ok := bDays[succ]; ok {
			return true
		}
	}
	return false
}

func dedup(cs []schedule.PairwiseConstraint) []schedule.PairwiseConstraint {
	return lo.UniqBy(cs, func(c schedule.PairwiseConstraint) [3]any {
		return [3]any{c.From, c.To, c.K}
	})
}
