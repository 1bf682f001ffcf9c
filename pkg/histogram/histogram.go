// Package histogram collapses a Problem's per-timeslot workload sequences
// into a LoadHistogram of unique load levels with repetition counts, and
// optionally rescales workload and performance values by their GCD before
// formulation.
package histogram

import (
	"sort"

	"github.com/malloovia/malloovia/pkg/problem"
)

// Build zips a Problem's workload sequences into T tuples, deduplicates
// them, and sorts the unique set in ascending lexicographic order for
// deterministic output. Σ repeats == T always holds.
func Build(p problem.Problem) problem.LoadHistogram {
	apps := p.Apps()
	workloads := p.Workloads()
	t := p.T()

	tuples := make([]problem.LoadLevel, t)
	for slot := 0; slot < t; slot++ {
		values := make([]int, len(workloads))
		for i, w := range workloads {
			values[i] = w.Values()[slot]
		}
		tuples[slot] = problem.NewLoadLevel(apps, values)
	}

	uniqueIdx := make(map[string]int)
	var levels []problem.LoadLevel
	var repeats []int
	index := make([]int, t)

	// First pass in timeslot order to discover the unique set; sorted after
	// so that Index still points at the right position once Levels is
	// reordered.
	for slot, tuple := range tuples {
		key := tuple.Key()
		if pos, ok := uniqueIdx[key]; ok {
			repeats[pos]++
			index[slot] = pos
			continue
		}
		pos := len(levels)
		uniqueIdx[key] = pos
		levels = append(levels, tuple)
		repeats = append(repeats, 1)
		index[slot] = pos
	}

	order := make([]int, len(levels))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return levels[order[i]].Less(levels[order[j]])
	})

	sortedLevels := make([]problem.LoadLevel, len(levels))
	sortedRepeats := make([]int, len(levels))
	rank := make([]int, len(levels))
	for newPos, oldPos := range order {
		sortedLevels[newPos] = levels[oldPos]
		sortedRepeats[newPos] = repeats[oldPos]
		rank[oldPos] = newPos
	}
	for slot, oldPos := range index {
		index[slot] = rank[oldPos]
	}

	return problem.LoadHistogram{Levels: sortedLevels, Repeats: sortedRepeats, Index: index}
}

// RescaleResult describes whether GCD rescaling was applied and by what
// multiplier, for recording in SolvingStats.Algorithm.
type RescaleResult struct {
	Applied    bool
	Multiplier int
}

// RescaleGCD computes g = gcd of every workload value and every performance
// value in the problem. If g > 1 and every one of those values is an
// integer multiple of g, it replaces each of h's load levels and *perf with
// copies whose values are divided by g, and returns {true, g}; the original
// performance set's map is not modified.
// Otherwise it leaves both untouched and returns {false, 1}: rescaling only
// ever applies to an all-integer problem.
func RescaleGCD(h *problem.LoadHistogram, perf *problem.PerformanceSet, classes []problem.ClassID, apps []problem.AppID) RescaleResult {
	g := 0
	allIntegral := true

	for _, level := range h.Levels {
		for _, v := range level.Values() {
			if v < 0 {
				allIntegral = false
			}
			g = gcd(g, v)
		}
	}
	for _, c := range classes {
		for _, a := range apps {
			v, ok := perf.Value(c, a)
			if !ok {
				continue
			}
			if v != float64(int(v)) {
				allIntegral = false
				continue
			}
			g = gcd(g, int(v))
		}
	}

	if !allIntegral || g <= 1 {
		return RescaleResult{Applied: false, Multiplier: 1}
	}

	for i, level := range h.Levels {
		values := level.Values()
		for j := range values {
			values[j] /= g
		}
		h.Levels[i] = problem.NewLoadLevel(level.Apps(), values)
	}

	rescaled := problem.NewPerformanceSet(perf.ID(), perf.TimeUnit())
	for _, c := range classes {
		for _, a := range apps {
			v, ok := perf.Value(c, a)
			if !ok {
				continue
			}
			rescaled = rescaled.Set(c, a, v/float64(g))
		}
	}
	*perf = rescaled

	return RescaleResult{Applied: true, Multiplier: g}
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
