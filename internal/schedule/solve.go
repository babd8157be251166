package schedule

import (
	"context"

	"github.com/meet-when/shiftsched/internal/overlap"
	"github.com/meet-when/shiftsched/internal/requests"
	"github.com/meet-when/shiftsched/internal/solver"
)

// CapabilityFactory produces a fresh solver.Capability for one Solve
// call; the core never holds a solver instance across calls.
type CapabilityFactory func() solver.Capability

// Solve runs validation, overlap reconciliation, request mapping,
// model construction and the two-phase driver over snap, and
// materializes the resulting Outcome. autoReconcile, when true, runs
// the Overlap Analyzer over snap.Templates and uses its result in
// place of snap.PairwiseConstraints (reconciled against any supplied
// values) rather than trusting the caller's registry as-is.
func Solve(ctx context.Context, newCapability CapabilityFactory, snap Snapshot, window Window, opts Options, autoReconcile bool) (Outcome, []string, error) {
	warnings, err := Validate(snap, window, opts)
	if err != nil {
		return Outcome{}, warnings, err
	}

	if autoReconcile {
		snap.PairwiseConstraints = overlap.Reconcile(snap.PairwiseConstraints, snap.Templates)
	}

	violations := requests.Map(snap.Templates, snap.Requests, window)

	capability := newCapability()
	model, err := BuildModel(capability, snap, window, opts, violations)
	if err != nil {
		return Outcome{}, warnings, err
	}

	outcome, err := runDriver(ctx, capability, model, opts)
	if err != nil {
		return Outcome{}, warnings, err
	}

	if outcome.Phase == PhaseOptimal || outcome.Phase == PhaseFeasible {
		outcome.Occurrences, outcome.Assignments = materialize(capability, model, window)
	}

	return outcome, warnings, nil
}
