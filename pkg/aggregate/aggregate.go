// Package aggregate computes global statistics over a full Phase II
// period.
package aggregate

import "github.com/malloovia/malloovia/pkg/problem"

// Global sums each timeslot's creation and solving time, sums optimal
// costs (treating overfull slots by their achieved fallback cost), and
// reports overfull if any timeslot overflowed, else optimal if every
// timeslot was optimal or trivial, else the worst status seen.
func Global(results []problem.SolutionII) problem.GlobalSolvingStats {
	var out problem.GlobalSolvingStats
	if len(results) == 0 {
		return out
	}

	costSum := 0.0
	haveCost := true
	worst := problem.StatusOptimal
	anyOverfull := false

	for _, r := range results {
		out.CreationTime += r.Stats.CreationTime
		out.SolvingTime += r.Stats.SolvingTime

		if r.Stats.HasCost() {
			costSum += r.Stats.Cost()
		} else {
			haveCost = false
		}

		status := r.Stats.Algorithm.Status
		if status == problem.StatusOverfull {
			anyOverfull = true
		}
		if status.WorseThan(worst) {
			worst = status
		}
	}

	if haveCost {
		cost := costSum
		out.OptimalCost = &cost
	}

	switch {
	case anyOverfull:
		out.Status = problem.StatusOverfull
	case worst == problem.StatusOptimal:
		out.Status = problem.StatusOptimal
	default:
		out.Status = worst
	}

	return out
}
