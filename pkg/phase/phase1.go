// Package phase implements the two-phase solve controllers: PhaseI runs
// the single whole-horizon MILP, PhaseII iterates timeslots with a
// memoization cache and an optional guided lower-bound policy.
package phase

import (
	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/histogram"
	"github.com/malloovia/malloovia/pkg/problem"
	"github.com/malloovia/malloovia/pkg/solve"
)

// PhaseI runs the single MILP over the whole reservation horizon,
// collapsed into a load histogram.
type PhaseI struct {
	Orchestrator *solve.Orchestrator
	// GCD enables rescaling whenever every workload and performance value
	// in the problem is a positive integer multiple of a common divisor.
	GCD bool
}

func NewPhaseI(o *solve.Orchestrator) *PhaseI {
	return &PhaseI{Orchestrator: o, GCD: true}
}

// Solve builds the load histogram, optionally rescales it by its GCD,
// short-circuits the trivial all-zero case, and otherwise formulates and
// solves the Phase I MILP.
func (ph *PhaseI) Solve(p problem.Problem, cfg backend.Config) problem.SolutionI {
	hist := histogram.Build(p)

	if allLevelsZero(hist.Levels) {
		return trivialSolutionI(p, hist)
	}

	workingProblem := p
	workingHist := hist
	gcd := histogram.RescaleResult{Applied: false, Multiplier: 1}
	if ph.GCD {
		perf := p.Performances()
		classes := classIDsOf(p)
		// Rescale a copy of the level slice; dividing by a common divisor
		// preserves the lexicographic level order, so Index stays valid.
		workingHist = problem.LoadHistogram{
			Levels:  append([]problem.LoadLevel(nil), hist.Levels...),
			Repeats: hist.Repeats,
			Index:   hist.Index,
		}
		gcd = histogram.RescaleGCD(&workingHist, &perf, classes, p.Apps())
		if gcd.Applied {
			workingProblem = p.WithPerformances(perf)
		}
	}

	sol := ph.Orchestrator.RunI(workingProblem, workingHist, cfg)
	// Report the solution against the original, unscaled problem and levels.
	sol.Problem = p
	sol.Histogram = hist
	sol.Allocation.Slots = hist.Levels
	sol.Stats.Algorithm.GCDApplied = gcd.Applied
	sol.Stats.Algorithm.GCDMultiplier = gcd.Multiplier
	return sol
}

func classIDsOf(p problem.Problem) []problem.ClassID {
	classes := p.InstanceClasses()
	out := make([]problem.ClassID, len(classes))
	for i, c := range classes {
		out[i] = c.ID()
	}
	return out
}

func allLevelsZero(levels []problem.LoadLevel) bool {
	for _, l := range levels {
		if !l.IsZero() {
			return false
		}
	}
	return true
}

func trivialSolutionI(p problem.Problem, hist problem.LoadHistogram) problem.SolutionI {
	classes := classIDsOf(p)
	reserved := problem.NewReservedAllocation(classes)
	alloc := problem.NewAllocationInfo(hist.Levels, classes, p.Apps())
	zero := 0.0
	return problem.SolutionI{
		Problem:    p,
		Histogram:  hist,
		Reserved:   reserved,
		Allocation: alloc,
		Stats: problem.SolvingStats{
			OptimalCost: &zero,
			Algorithm: problem.AlgorithmStats{
				Name:   "SimplexBackend",
				Status: problem.StatusTrivial,
			},
		},
	}
}
