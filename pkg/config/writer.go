package config

import "github.com/malloovia/malloovia/pkg/problem"

func algorithmDoc(a problem.AlgorithmStats) AlgorithmDoc {
	return AlgorithmDoc{
		Name:          a.Name,
		Status:        string(a.Status),
		FracGap:       a.FracGap,
		MaxSeconds:    a.MaxSeconds,
		Threads:       a.Threads,
		GCD:           a.GCDApplied,
		GCDMultiplier: a.GCDMultiplier,
	}
}

func solvingStatsDoc(s problem.SolvingStats) SolvingStatsDoc {
	return SolvingStatsDoc{
		CreationTime: s.CreationTime,
		SolvingTime:  s.SolvingTime,
		OptimalCost:  s.OptimalCost,
		Algorithm:    algorithmDoc(s.Algorithm),
	}
}

// SolutionIDoc renders a SolutionI as the phase-I document shape.
func SolutionIDoc(id string, sol problem.SolutionI) SolutionDoc {
	classes := make([]string, len(sol.Reserved.Classes))
	vms := make([]int, len(sol.Reserved.Classes))
	for i, c := range sol.Reserved.Classes {
		classes[i] = string(c)
		vms[i] = sol.Reserved.Get(c)
	}

	var entries []AllocationEntryDoc
	for t := range sol.Allocation.Slots {
		for _, c := range sol.Allocation.Classes {
			for _, a := range sol.Allocation.Apps {
				n := sol.Allocation.Get(t, c, a)
				if n == 0 {
					continue
				}
				entries = append(entries, AllocationEntryDoc{Timeslot: t, InstanceClass: string(c), App: string(a), VMs: n})
			}
		}
	}

	return SolutionDoc{
		ID:                 id,
		Problem:            sol.Problem.ID(),
		SolvingStats:       StatsOrList{Single: ptr(solvingStatsDoc(sol.Stats))},
		ReservedAllocation: &ReservedAllocationDoc{InstanceClasses: classes, VMsNumber: vms},
		Allocation:         &AllocationDoc{Entries: entries},
	}
}

// SolutionIIDoc renders a full Phase II period as the phase-II document
// shape: one SolvingStats per timeslot, plus the summarizing global stats.
func SolutionIIDoc(id, previousPhaseID string, results []problem.SolutionII, global problem.GlobalSolvingStats) SolutionDoc {
	stats := make([]SolvingStatsDoc, len(results))
	var entries []AllocationEntryDoc
	var problemID string
	for t, r := range results {
		stats[t] = solvingStatsDoc(r.Stats)
		problemID = r.Problem.ID()
		// Walk classes and apps in problem order so the rendered document is
		// stable across runs.
		for _, c := range r.Problem.InstanceClasses() {
			byApp := r.Allocation[c.ID()]
			for _, app := range r.Problem.Apps() {
				n := byApp[app]
				if n == 0 {
					continue
				}
				entries = append(entries, AllocationEntryDoc{Timeslot: t, InstanceClass: string(c.ID()), App: string(app), VMs: n})
			}
		}
	}

	globalDoc := solvingStatsDoc(problem.SolvingStats{
		CreationTime: global.CreationTime,
		SolvingTime:  global.SolvingTime,
		OptimalCost:  global.OptimalCost,
		Algorithm:    problem.AlgorithmStats{Name: "SimplexBackend", Status: global.Status},
	})

	return SolutionDoc{
		ID:                 id,
		Problem:            problemID,
		PreviousPhase:      previousPhaseID,
		SolvingStats:       StatsOrList{List: stats},
		GlobalSolvingStats: &globalDoc,
		Allocation:         &AllocationDoc{Entries: entries},
	}
}

func ptr[T any](v T) *T { return &v }
