// Package cpsat adapts github.com/google/or-tools/sat to the
// solver.Capability interface so the scheduling core never imports a
// concrete CP-SAT backend directly.
package cpsat

import (
	"context"
	"fmt"

	"github.com/google/or-tools/sat"

	"github.com/meet-when/shiftsched/internal/solver"
)

var _ solver.Capability = (*Adapter)(nil)

// Adapter is a single-use solver.Capability: build one model, Solve it
// (possibly more than once, for the two-phase driver), then discard it.
type Adapter struct {
	model    *sat.CpModel
	solver   *sat.CpSolver
	deadline float64
	workers  int
}

// New returns a fresh adapter wrapping an empty CP-SAT model.
func New() *Adapter {
	return &Adapter{
		model:  sat.NewCpModel(),
		solver: sat.NewCpSolver(),
	}
}

func (a *Adapter) NewBoolVar(name string) solver.Var {
	return a.model.NewBoolVar(name)
}

func (a *Adapter) NewIntVar(lo, hi int64, name string) solver.Var {
	return a.model.NewIntVar(lo, hi, name)
}

func (a *Adapter) AddLinearConstraint(terms []solver.Term, lb, ub int64) {
	expr := a.model.NewLinearExpr()
	for _, t := range terms {
		addTerm(expr, t)
	}
	a.model.AddLinearConstraintForExpr(expr, lb, ub)
}

func (a *Adapter) AddLinearConstraintEnforced(terms []solver.Term, lb, ub int64, enforce solver.Var, enforceValue bool) {
	expr := a.model.NewLinearExpr()
	for _, t := range terms {
		addTerm(expr, t)
	}
	ct := a.model.AddLinearConstraintForExpr(expr, lb, ub)
	ev := enforce.(*sat.BoolVar)
	if enforceValue {
		ct.OnlyEnforceIf(ev)
	} else {
		ct.OnlyEnforceIf(ev.Not())
	}
}

func (a *Adapter) Minimize(terms []solver.Term) {
	expr := a.model.NewLinearExpr()
	for _, t := range terms {
		addTerm(expr, t)
	}
	a.model.Minimise(expr)
}

func (a *Adapter) AddHint(v solver.Var, value int64) {
	switch tv := v.(type) {
	case *sat.BoolVar:
		a.model.AddHint(tv, value != 0)
	case *sat.IntVar:
		a.model.AddHintInt(tv, value)
	}
}

func (a *Adapter) ClearHints() {
	a.model.ClearHints()
}

func (a *Adapter) SetWorkers(n int) {
	a.workers = n
}

func (a *Adapter) SetDeadline(seconds float64) {
	a.deadline = seconds
}

func (a *Adapter) Solve(ctx context.Context) (solver.Status, error) {
	if err := ctx.Err(); err != nil {
		return solver.StatusModelInvalid, err
	}
	if a.workers > 0 {
		a.solver.SetNumWorkers(a.workers)
	}
	if a.deadline > 0 {
		a.solver.SetMaxTime(a.deadline)
	}

	status := a.solver.Solve(a.model)
	switch status {
	case sat.Optimal:
		return solver.StatusOptimal, nil
	case sat.Feasible:
		return solver.StatusFeasible, nil
	case sat.Infeasible:
		return solver.StatusInfeasible, nil
	case sat.ModelInvalid:
		return solver.StatusModelInvalid, fmt.Errorf("cpsat: invalid model")
	default:
		return solver.StatusModelInvalid, fmt.Errorf("cpsat: unknown solver status %v", status)
	}
}

func (a *Adapter) Value(v solver.Var) int64 {
	switch tv := v.(type) {
	case *sat.IntVar:
		return a.solver.Value(tv)
	case *sat.BoolVar:
		if a.solver.BooleanValue(tv) {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (a *Adapter) BooleanValue(v solver.Var) bool {
	return a.solver.BooleanValue(v.(*sat.BoolVar))
}

func (a *Adapter) ObjectiveValue() float64 {
	return a.solver.ObjectiveValue()
}

func addTerm(expr *sat.LinearExpr, t solver.Term) {
	switch v := t.Var.(type) {
	case *sat.BoolVar:
		expr.AddTerm(v, t.Coeff)
	case *sat.IntVar:
		expr.AddTermInt(v, t.Coeff)
	}
}
