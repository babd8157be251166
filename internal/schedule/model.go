package schedule

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/meet-when/shiftsched/internal/solver"
	"github.com/meet-when/shiftsched/internal/timeutil"
)

// Sentinel bounds standing in for "no lower/upper bound" in a linear
// constraint whose other side is what actually matters.
const (
	negInf = int64(-1) << 40
	posInf = int64(1) << 40
)

type assignKey struct {
	Person   PersonID
	Day      int
	Template TemplateID
}

// Model is the materialized Boolean/integer CSP for one scheduling
// window: every decision variable the driver needs to hint, lock, or
// read back a solution from.
type Model struct {
	Assign       map[assignKey]solver.Var
	WorkHours    map[assignKey]solver.Var
	FairnessVars []solver.Var // diff_s variables, also hinted between phases
	Violations   map[Violation]solver.Var

	Phase1Terms []solver.Term
	Phase2Terms []solver.Term

	days      int
	templates []ShiftTemplate
}

// BuildModel constructs the decision variables and constraints of the
// scheduling problem over capability: coverage, eligibility, pairwise
// temporal exclusion, the optional per-2-day workload cap, the Phase-1
// fairness objective and the Phase-2 request-violation objective.
// violations is the Request Mapper's output; it may be nil/empty.
func BuildModel(capability solver.Capability, snap Snapshot, window Window, opts Options, violations map[Violation]struct{}) (*Model, error) {
	days := window.Days()

	templateByID := lo.SliceToMap(snap.Templates, func(t ShiftTemplate) (TemplateID, ShiftTemplate) { return t.ID, t })
	groupOf := lo.SliceToMap(snap.Persons, func(p Person) (PersonID, GroupID) { return p.ID, p.GroupID })

	eligible := make(map[TemplateID]map[PersonID]struct{}, len(snap.Templates))
	for _, t := range snap.Templates {
		eligible[t.ID] = make(map[PersonID]struct{})
	}
	for _, link := range snap.GroupShiftLinks {
		for _, p := range snap.Persons {
			if groupOf[p.ID] == link.Group {
				eligible[link.Template][p.ID] = struct{}{}
			}
		}
	}

	m := &Model{
		Assign:     make(map[assignKey]solver.Var),
		WorkHours:  make(map[assignKey]solver.Var),
		Violations: make(map[Violation]solver.Var),
		days:       days,
		templates:  snap.Templates,
	}

	// Decision variables, plus the optional per-assignment workload
	// hour accounting used by the two-day cap.
	for _, p := range snap.Persons {
		for d := 0; d < days; d++ {
			for _, t := range snap.Templates {
				key := assignKey{p.ID, d, t.ID}
				m.Assign[key] = capability.NewBoolVar(fmt.Sprintf("x_%s_d%d_%s", p.ID, d, t.ID))

				if opts.MaxHoursPer2Days != nil {
					hours := int64(t.DurationSeconds) / 3600
					hv := capability.NewIntVar(0, hours, fmt.Sprintf("h_%s_d%d_%s", p.ID, d, t.ID))
					m.WorkHours[key] = hv
				}
			}
		}
	}

	// Coverage: each (day, template) occurrence is staffed exactly to
	// RequiredCount when the template runs that weekday, and forced to
	// zero when it doesn't.
	for d := 0; d < days; d++ {
		weekday := timeutil.WeekdayForDay(window.StartWeekday, d)
		for _, t := range snap.Templates {
			terms := make([]solver.Term, 0, len(snap.Persons))
			for _, p := range snap.Persons {
				terms = append(terms, solver.Term{Var: m.Assign[assignKey{p.ID, d, t.ID}], Coeff: 1})
			}
			if _, active := t.Weekdays[weekday]; active {
				capability.AddLinearConstraint(terms, int64(t.RequiredCount), int64(t.RequiredCount))
			} else {
				capability.AddLinearConstraint(terms, 0, 0)
			}
		}
	}

	// Eligibility: a person may only be assigned to templates their
	// group is linked to.
	for _, p := range snap.Persons {
		for d := 0; d < days; d++ {
			for _, t := range snap.Templates {
				key := assignKey{p.ID, d, t.ID}
				v := m.Assign[key]
				if _, ok := eligible[t.ID][p.ID]; !ok {
					capability.AddLinearConstraint([]solver.Term{{Var: v, Coeff: 1}}, 0, 0)
					continue
				}
				if opts.MaxHoursPer2Days != nil {
					hv := m.WorkHours[key]
					hours := int64(t.DurationSeconds) / 3600
					capability.AddLinearConstraintEnforced([]solver.Term{{Var: hv, Coeff: 1}}, hours, hours, v, true)
					capability.AddLinearConstraintEnforced([]solver.Term{{Var: hv, Coeff: 1}}, 0, 0, v, false)
				}
			}
		}
	}

	// Optional workload cap: no person may log more than the
	// configured number of hours across any two consecutive days.
	if opts.MaxHoursPer2Days != nil {
		capHours := int64(*opts.MaxHoursPer2Days)
		for d := 0; d < days-1; d++ {
			for _, p := range snap.Persons {
				var terms []solver.Term
				for _, t := range snap.Templates {
					terms = append(terms,
						solver.Term{Var: m.WorkHours[assignKey{p.ID, d, t.ID}], Coeff: 1},
						solver.Term{Var: m.WorkHours[assignKey{p.ID, d + 1, t.ID}], Coeff: 1},
					)
				}
				capability.AddLinearConstraint(terms, negInf, capHours)
			}
		}
	}

	// Pairwise temporal exclusion: same-day mutual exclusivity for
	// every constrained pair of distinct templates, plus a look-ahead
	// exclusion for offsets 1..K when K > 0. A self-constraint (s, s, 0)
	// therefore adds nothing.
	for _, p := range snap.Persons {
		for _, pc := range snap.PairwiseConstraints {
			if _, ok := templateByID[pc.From]; !ok {
				continue
			}
			if _, ok := templateByID[pc.To]; !ok {
				continue
			}
			if pc.From != pc.To {
				for d := 0; d < days; d++ {
					from := m.Assign[assignKey{p.ID, d, pc.From}]
					to := m.Assign[assignKey{p.ID, d, pc.To}]
					capability.AddLinearConstraint([]solver.Term{{Var: from, Coeff: 1}, {Var: to, Coeff: 1}}, 0, 1)
				}
			}
			for i := 1; i <= pc.K; i++ {
				for d := 0; d+i < days; d++ {
					from := m.Assign[assignKey{p.ID, d, pc.From}]
					to := m.Assign[assignKey{p.ID, d + i, pc.To}]
					capability.AddLinearConstraint([]solver.Term{{Var: from, Coeff: 1}, {Var: to, Coeff: 1}}, 0, 1)
				}
			}
		}
	}

	// Phase-1 objective: for every template with more than one
	// eligible person, minimize the spread between the busiest and
	// idlest eligible person's shift count.
	for _, t := range snap.Templates {
		members := lo.Keys(eligible[t.ID])
		if len(members) <= 1 {
			continue
		}

		loVar := capability.NewIntVar(0, int64(days), fmt.Sprintf("lo_%s", t.ID))
		hiVar := capability.NewIntVar(0, int64(days), fmt.Sprintf("hi_%s", t.ID))
		diffVar := capability.NewIntVar(0, int64(days), fmt.Sprintf("diff_%s", t.ID))

		for _, personID := range members {
			var countTerms []solver.Term
			for d := 0; d < days; d++ {
				countTerms = append(countTerms, solver.Term{Var: m.Assign[assignKey{personID, d, t.ID}], Coeff: 1})
			}

			loTerms := append([]solver.Term{{Var: loVar, Coeff: 1}}, negate(countTerms)...)
			capability.AddLinearConstraint(loTerms, negInf, 0) // loVar <= count

			hiTerms := append([]solver.Term{{Var: hiVar, Coeff: 1}}, negate(countTerms)...)
			capability.AddLinearConstraint(hiTerms, 0, posInf) // hiVar >= count
		}

		capability.AddLinearConstraint([]solver.Term{{Var: diffVar, Coeff: 1}, {Var: hiVar, Coeff: -1}, {Var: loVar, Coeff: 1}}, 0, 0)

		m.FairnessVars = append(m.FairnessVars, diffVar)
		m.Phase1Terms = append(m.Phase1Terms, solver.Term{Var: diffVar, Coeff: 1})
	}

	// Phase-2 objective: minimize the number of honored time-off
	// requests that end up violated by the assignment.
	for v := range violations {
		key := assignKey{v.Person, v.Day, v.Template}
		assignVar, ok := m.Assign[key]
		if !ok {
			continue
		}
		violationVar := capability.NewBoolVar(fmt.Sprintf("violation_%s_d%d_%s", v.Person, v.Day, v.Template))
		capability.AddLinearConstraint([]solver.Term{{Var: violationVar, Coeff: 1}, {Var: assignVar, Coeff: -1}}, 0, 0)
		m.Violations[v] = violationVar
		m.Phase2Terms = append(m.Phase2Terms, solver.Term{Var: violationVar, Coeff: 1})
	}

	return m, nil
}

func negate(terms []solver.Term) []solver.Term {
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = solver.Term{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}
