package phase

import (
	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/problem"
	"github.com/malloovia/malloovia/pkg/solve"
)

// Predictor is an external producer of a lazy, finite, non-restartable
// sequence of load-level tuples. PhaseII.SolvePeriod drains it.
type Predictor interface {
	// Next returns the next load level and true, or a zero value and false
	// once the sequence is exhausted.
	Next() (problem.LoadLevel, bool)
}

// WorkloadPredictor adapts a Problem's own stored workloads into a
// Predictor, so SolvePeriod can replay history through the same interface
// live predictions would use.
type WorkloadPredictor struct {
	apps   []problem.AppID
	values [][]int
	pos    int
}

func NewWorkloadPredictor(p problem.Problem) *WorkloadPredictor {
	workloads := p.Workloads()
	values := make([][]int, len(workloads))
	for i, w := range workloads {
		values[i] = w.Values()
	}
	return &WorkloadPredictor{apps: p.Apps(), values: values}
}

func (wp *WorkloadPredictor) Next() (problem.LoadLevel, bool) {
	if len(wp.values) == 0 || wp.pos >= len(wp.values[0]) {
		return problem.LoadLevel{}, false
	}
	values := make([]int, len(wp.values))
	for i := range wp.values {
		values[i] = wp.values[i][wp.pos]
	}
	wp.pos++
	return problem.NewLoadLevel(wp.apps, values), true
}

// GuidedPolicy supplies a per-timeslot lower bound X[k,a] >= guided[k][a],
// for "hold at least these VMs running" policies. Construct a PhaseII with
// NewPhaseIIGuided instead of introducing a second type.
type GuidedPolicy func(level problem.LoadLevel) map[problem.ClassID]map[problem.AppID]int

// PhaseII runs the per-timeslot MILP with Phase I's reserved allocation as
// a fixed parameter, memoizing results across repeated load-level tuples
// within one reservation period. A PhaseII instance owns its cache; it is
// not shared across instances.
type PhaseII struct {
	Orchestrator *solve.Orchestrator
	Guided       GuidedPolicy
	cache        map[string]solve.ResultII
}

// NewPhaseII constructs a plain PhaseII with no guided lower bound.
func NewPhaseII(o *solve.Orchestrator) *PhaseII {
	return &PhaseII{Orchestrator: o, cache: make(map[string]solve.ResultII)}
}

// NewPhaseIIGuided constructs a PhaseII that injects policy's lower bound
// into every timeslot's formulation.
func NewPhaseIIGuided(o *solve.Orchestrator, policy GuidedPolicy) *PhaseII {
	return &PhaseII{Orchestrator: o, Guided: policy, cache: make(map[string]solve.ResultII)}
}

// SolveTimeslot solves (or replays from cache) a single load level against
// the reserved allocation carried by prev.
func (ph *PhaseII) SolveTimeslot(p problem.Problem, prev problem.SolutionI, level problem.LoadLevel, cfg backend.Config) problem.SolutionII {
	key := level.Key()

	if level.IsZero() {
		return trivialSolutionII(p, prev, level)
	}

	if cached, ok := ph.cache[key]; ok {
		ph.Orchestrator.Metrics.IncCacheHit()
		stats := cached.Stats
		stats.SolvingTime = 0
		stats.CreationTime = 0
		return problem.SolutionII{
			Problem:       p,
			PreviousPhase: &prev,
			Stats:         stats,
			Level:         level,
			Allocation:    cached.Allocation,
		}
	}
	ph.Orchestrator.Metrics.IncCacheMiss()

	var guided map[problem.ClassID]map[problem.AppID]int
	if ph.Guided != nil {
		guided = ph.Guided(level)
	}

	result := ph.Orchestrator.RunII(p, prev.Reserved, level, guided, cfg)
	ph.cache[key] = result

	return problem.SolutionII{
		Problem:       p,
		PreviousPhase: &prev,
		Stats:         result.Stats,
		Level:         level,
		Allocation:    result.Allocation,
	}
}

// SolvePeriod drains predictor, solving (or replaying from cache) one
// timeslot at a time, in sequence order. The cache is updated before the
// next iteration starts, so an interrupted period can be resumed.
func (ph *PhaseII) SolvePeriod(p problem.Problem, prev problem.SolutionI, predictor Predictor, cfg backend.Config) []problem.SolutionII {
	var out []problem.SolutionII
	for {
		level, ok := predictor.Next()
		if !ok {
			break
		}
		out = append(out, ph.SolveTimeslot(p, prev, level, cfg))
	}
	return out
}

// trivialSolutionII handles an all-zero load level without invoking the
// backend. The slot still pays for every reserved VM Phase I committed to:
// reserved capacity is billed whether used or not.
func trivialSolutionII(p problem.Problem, prev problem.SolutionI, level problem.LoadLevel) problem.SolutionII {
	allocation := make(map[problem.ClassID]map[problem.AppID]int)
	for _, c := range p.InstanceClasses() {
		allocation[c.ID()] = make(map[problem.AppID]int)
		for _, a := range p.Apps() {
			allocation[c.ID()][a] = 0
		}
	}
	cost := solve.TimeslotCost(p, prev.Reserved, allocation)
	return problem.SolutionII{
		Problem:       p,
		PreviousPhase: &prev,
		Level:         level,
		Allocation:    allocation,
		Stats: problem.SolvingStats{
			OptimalCost: &cost,
			Algorithm:   problem.AlgorithmStats{Name: "SimplexBackend", Status: problem.StatusTrivial},
		},
	}
}
