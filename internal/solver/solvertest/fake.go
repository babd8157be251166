// Package solvertest provides an in-process solver.Capability backed
// by exhaustive backtracking search, for unit-testing model builders
// against small fixtures without a real CP-SAT backend.
package solvertest

import (
	"context"

	"github.com/meet-when/shiftsched/internal/solver"
)

type varRef int

type variable struct {
	lo, hi int64
}

type constraint struct {
	terms       []solver.Term
	lb, ub      int64
	hasEnforce  bool
	enforce     varRef
	enforceWant bool
}

// Fake is a small, deterministic solver.Capability. It is exhaustive,
// not scalable: intended for fixtures with at most a few dozen
// variables of small domain.
type Fake struct {
	vars        []variable
	constraints []constraint
	objective   []solver.Term
	hints       map[varRef]int64

	best    map[varRef]int64
	bestObj int64
	found   bool
}

var _ solver.Capability = (*Fake)(nil)

func New() *Fake {
	return &Fake{hints: make(map[varRef]int64)}
}

func (f *Fake) NewBoolVar(name string) solver.Var {
	f.vars = append(f.vars, variable{lo: 0, hi: 1})
	return varRef(len(f.vars) - 1)
}

func (f *Fake) NewIntVar(lo, hi int64, name string) solver.Var {
	f.vars = append(f.vars, variable{lo: lo, hi: hi})
	return varRef(len(f.vars) - 1)
}

func (f *Fake) AddLinearConstraint(terms []solver.Term, lb, ub int64) {
	f.constraints = append(f.constraints, constraint{terms: terms, lb: lb, ub: ub})
}

func (f *Fake) AddLinearConstraintEnforced(terms []solver.Term, lb, ub int64, enforce solver.Var, enforceValue bool) {
	f.constraints = append(f.constraints, constraint{
		terms: terms, lb: lb, ub: ub,
		hasEnforce: true, enforce: enforce.(varRef), enforceWant: enforceValue,
	})
}

func (f *Fake) Minimize(terms []solver.Term) {
	f.objective = terms
}

// AddHint and ClearHints are accepted to satisfy solver.Capability
// but otherwise unused: exhaustive search already finds the true
// optimum without a warm start.
func (f *Fake) AddHint(v solver.Var, value int64) {
	f.hints[v.(varRef)] = value
}

func (f *Fake) ClearHints() {
	f.hints = make(map[varRef]int64)
}

func (f *Fake) SetWorkers(int)      {}
func (f *Fake) SetDeadline(float64) {}

// Solve performs exhaustive backtracking over every variable's
// domain, keeping the lowest-objective complete assignment that
// satisfies every constraint (unconditional and enforced).
func (f *Fake) Solve(ctx context.Context) (solver.Status, error) {
	assignment := make([]int64, len(f.vars))
	assigned := make([]bool, len(f.vars))
	f.found = false
	f.bestObj = 0

	f.search(ctx, 0, assignment, assigned)

	if !f.found {
		return solver.StatusInfeasible, nil
	}
	return solver.StatusOptimal, nil
}

func (f *Fake) search(ctx context.Context, idx int, assignment []int64, assigned []bool) {
	if err := ctx.Err(); err != nil {
		return
	}
	if idx == len(f.vars) {
		if !f.satisfiesAll(assignment) {
			return
		}
		obj := f.evalObjective(assignment)
		if !f.found || obj < f.bestObj {
			f.found = true
			f.bestObj = obj
			f.best = make(map[varRef]int64, len(assignment))
			for i, v := range assignment {
				f.best[varRef(i)] = v
			}
		}
		return
	}

	v := f.vars[idx]
	for val := v.lo; val <= v.hi; val++ {
		assignment[idx] = val
		assigned[idx] = true
		f.search(ctx, idx+1, assignment, assigned)
	}
	assigned[idx] = false
}

func (f *Fake) satisfiesAll(assignment []int64) bool {
	for _, c := range f.constraints {
		if c.hasEnforce {
			active := assignment[c.enforce] != 0
			if active != c.enforceWant {
				continue
			}
		}
		var sum int64
		for _, t := range c.terms {
			sum += t.Coeff * assignment[t.Var.(varRef)]
		}
		if sum < c.lb || sum > c.ub {
			return false
		}
	}
	return true
}

func (f *Fake) evalObjective(assignment []int64) int64 {
	var sum int64
	for _, t := range f.objective {
		sum += t.Coeff * assignment[t.Var.(varRef)]
	}
	return sum
}

func (f *Fake) Value(v solver.Var) int64 {
	return f.best[v.(varRef)]
}

func (f *Fake) BooleanValue(v solver.Var) bool {
	return f.best[v.(varRef)] != 0
}

func (f *Fake) ObjectiveValue() float64 {
	return float64(f.bestObj)
}
