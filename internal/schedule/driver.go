package schedule

import (
	"context"
	"errors"
	"math"

	"github.com/meet-when/shiftsched/internal/solver"
)

// Phase identifies which half of the two-phase optimization a
// terminal Outcome corresponds to.
type Phase int

const (
	PhaseOptimal Phase = iota
	PhaseFeasible
	PhasePhase1Infeasible
	PhasePhase2Infeasible
	PhaseDeadlineExceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseOptimal:
		return "optimal"
	case PhaseFeasible:
		return "feasible"
	case PhasePhase1Infeasible:
		return "phase1_infeasible"
	case PhasePhase2Infeasible:
		return "phase2_infeasible"
	case PhaseDeadlineExceeded:
		return "deadline_exceeded"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a Solve call.
type Outcome struct {
	Phase           Phase
	Occurrences     []ScheduledOccurrence
	Assignments     []Assignment
	Phase1Objective int64
	Phase2Objective int64
}

// runDriver executes the two-phase lexicographic optimization: Phase
// 1 minimizes the fairness spread, then pins that optimum as a
// constraint and Phase 2 minimizes request violations on top of it.
func runDriver(ctx context.Context, capability solver.Capability, m *Model, opts Options) (Outcome, error) {
	capability.SetWorkers(opts.SolverWorkers)
	if opts.DeadlineSeconds != nil {
		capability.SetDeadline(*opts.DeadlineSeconds)
	}

	capability.Minimize(m.Phase1Terms)
	status1, err := capability.Solve(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if deadlineExceeded(ctx) {
		return Outcome{Phase: PhaseDeadlineExceeded}, nil
	}
	if !isSolved(status1) {
		return Outcome{Phase: PhasePhase1Infeasible}, nil
	}

	phase1Obj := int64(math.Round(capability.ObjectiveValue()))

	for _, v := range m.Assign {
		capability.AddHint(v, capability.Value(v))
	}
	for _, v := range m.FairnessVars {
		capability.AddHint(v, capability.Value(v))
	}

	capability.AddLinearConstraint(m.Phase1Terms, negInf, phase1Obj)

	capability.Minimize(m.Phase2Terms)
	status2, err := capability.Solve(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if deadlineExceeded(ctx) {
		return Outcome{Phase: PhaseDeadlineExceeded, Phase1Objective: phase1Obj}, nil
	}
	if !isSolved(status2) {
		return Outcome{Phase: PhasePhase2Infeasible, Phase1Objective: phase1Obj}, nil
	}

	phase2Obj := int64(math.Round(capability.ObjectiveValue()))

	outcome := Outcome{
		Phase:           outcomePhase(status1, status2),
		Phase1Objective: phase1Obj,
		Phase2Objective: phase2Obj,
	}
	return outcome, nil
}

func isSolved(s solver.Status) bool {
	return s == solver.StatusOptimal || s == solver.StatusFeasible
}

func outcomePhase(status1, status2 solver.Status) Phase {
	if status1 == solver.StatusOptimal && status2 == solver.StatusOptimal {
		return PhaseOptimal
	}
	return PhaseFeasible
}

func deadlineExceeded(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
