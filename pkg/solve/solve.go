// Package solve drives a backend.Solver against the models formulator
// builds: it measures creation and solving wall-clock time, translates
// backend.Status into the domain problem.Status taxonomy, and reads
// variable values back into problem.ReservedAllocation / AllocationInfo.
package solve

import (
	"time"

	"github.com/malloovia/malloovia/internal/metrics"
	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/formulator"
	"github.com/malloovia/malloovia/pkg/problem"
)

// Orchestrator owns no cache (that is PhaseII's job) and no global state,
// only a backend handle and an instrumentation emitter.
type Orchestrator struct {
	Solver  backend.Solver
	Metrics *metrics.Emitter
}

func New(solver backend.Solver) *Orchestrator {
	return &Orchestrator{Solver: solver, Metrics: metrics.NewEmitter()}
}

func translateStatus(s backend.Status, err error) problem.Status {
	if err != nil {
		return problem.StatusUnknown
	}
	switch s {
	case backend.Optimal:
		return problem.StatusOptimal
	case backend.Infeasible:
		return problem.StatusInfeasible
	case backend.IntegerInfeasible:
		return problem.StatusIntegerInfeasible
	case backend.Aborted:
		return problem.StatusAborted
	case backend.SolverError:
		return problem.StatusCBCError
	default:
		return problem.StatusUnknown
	}
}

// RunI formulates and solves Phase I's MILP over the whole histogram and
// packs the result into a SolutionI.
func (o *Orchestrator) RunI(p problem.Problem, hist problem.LoadHistogram, cfg backend.Config) problem.SolutionI {
	createStart := time.Now()
	model, idx, err := formulator.BuildI(p, hist)
	creation := time.Since(createStart)
	if err != nil {
		return problem.SolutionI{Problem: p, Histogram: hist, Stats: problem.SolvingStats{
			CreationTime: creation.Seconds(),
			Algorithm:    problem.AlgorithmStats{Name: "SimplexBackend", Status: problem.StatusUnknown, FracGap: cfg.FracGap, MaxSeconds: cfg.MaxSeconds, Threads: cfg.Threads},
		}}
	}

	solveStart := time.Now()
	result, solveErr := o.Solver.Solve(model, cfg)
	solving := time.Since(solveStart)
	o.Metrics.IncBackendInvocation("I")

	status := translateStatus(result.Status, solveErr)
	o.Metrics.ObserveSolve("I", string(status), creation+solving)

	stats := problem.SolvingStats{
		CreationTime: creation.Seconds(),
		SolvingTime:  solving.Seconds(),
		Algorithm: problem.AlgorithmStats{
			Name:       "SimplexBackend",
			Status:     status,
			FracGap:    cfg.FracGap,
			MaxSeconds: cfg.MaxSeconds,
			Threads:    cfg.Threads,
		},
	}
	if obj, ok := result.ObjectiveValue(); ok {
		cost := obj
		stats.OptimalCost = &cost
	}

	reserved := problem.NewReservedAllocation(idx.Classes)
	for class, v := range idx.Y {
		reserved = reserved.Set(class, result.Value(v))
	}

	alloc := problem.NewAllocationInfo(hist.Levels, idx.Classes, idx.Apps)
	for l, byClass := range idx.X {
		for class, byApp := range byClass {
			for app, v := range byApp {
				alloc.Set(l, class, app, result.Value(v))
			}
		}
	}

	return problem.SolutionI{
		Problem:    p,
		Stats:      stats,
		Reserved:   reserved,
		Allocation: alloc,
		Histogram:  hist,
	}
}

// ResultII is one Phase II timeslot's solve outcome, ready for PhaseII to
// pack into a problem.SolutionII alongside the level it was solved for.
type ResultII struct {
	Stats      problem.SolvingStats
	Allocation map[problem.ClassID]map[problem.AppID]int
}

// RunII formulates and solves a single Phase II timeslot given the fixed
// reserved allocation from Phase I. On infeasibility it retries with the
// performance-maximizing fallback and reports status overfull. guided may
// be nil.
func (o *Orchestrator) RunII(p problem.Problem, reserved problem.ReservedAllocation, level problem.LoadLevel, guided map[problem.ClassID]map[problem.AppID]int, cfg backend.Config) ResultII {
	createStart := time.Now()
	model, idx, _ := formulator.BuildII(p, reserved, level, guided)
	creation := time.Since(createStart)

	solveStart := time.Now()
	result, err := o.Solver.Solve(model, cfg)
	solving := time.Since(solveStart)
	o.Metrics.IncBackendInvocation("II")

	status := translateStatus(result.Status, err)

	if status == problem.StatusInfeasible || status == problem.StatusIntegerInfeasible {
		fbStart := time.Now()
		fbModel, fbIdx, _ := formulator.BuildIIFallback(p, reserved, level)
		creation += time.Since(fbStart)

		fbSolveStart := time.Now()
		fbResult, fbErr := o.Solver.Solve(fbModel, cfg)
		solving += time.Since(fbSolveStart)
		o.Metrics.IncBackendInvocation("II_fallback")

		idx = fbIdx
		result = fbResult
		if translateStatus(fbResult.Status, fbErr) == problem.StatusOptimal {
			status = problem.StatusOverfull
		} else {
			status = translateStatus(fbResult.Status, fbErr)
		}
	}

	o.Metrics.ObserveSolve("II", string(status), creation+solving)

	stats := problem.SolvingStats{
		CreationTime: creation.Seconds(),
		SolvingTime:  solving.Seconds(),
		Algorithm: problem.AlgorithmStats{
			Name:       "SimplexBackend",
			Status:     status,
			FracGap:    cfg.FracGap,
			MaxSeconds: cfg.MaxSeconds,
			Threads:    cfg.Threads,
		},
	}

	allocation := make(map[problem.ClassID]map[problem.AppID]int, len(idx.Classes))
	for _, class := range idx.Classes {
		allocation[class] = make(map[problem.AppID]int, len(idx.Apps))
		for _, app := range idx.Apps {
			v, ok := idx.X[class][app]
			if !ok {
				continue
			}
			allocation[class][app] = result.Value(v)
		}
	}

	if status == problem.StatusOptimal || status == problem.StatusOverfull {
		cost := TimeslotCost(p, reserved, allocation)
		stats.OptimalCost = &cost
	}

	return ResultII{Stats: stats, Allocation: allocation}
}

// TimeslotCost is the monetary cost of one timeslot: every reserved VM's
// per-slot price (reserved VMs are paid whether used or not) plus the
// per-slot price of each on-demand VM the allocation runs. Summed over a
// period that replays Phase I's own workloads, these equal Phase I's
// optimal cost.
func TimeslotCost(p problem.Problem, reserved problem.ReservedAllocation, allocation map[problem.ClassID]map[problem.AppID]int) float64 {
	cost := 0.0
	for _, c := range p.InstanceClasses() {
		if c.IsReserved() {
			cost += c.Price() * float64(reserved.Get(c.ID()))
			continue
		}
		for _, n := range allocation[c.ID()] {
			cost += c.Price() * float64(n)
		}
	}
	return cost
}
