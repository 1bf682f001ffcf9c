package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malloovia/malloovia/pkg/problem"
)

func buildTestProblem(t *testing.T, workloadA, workloadB []int) problem.Problem {
	t.Helper()
	workloads := []problem.Workload{
		problem.NewWorkload("wl_a", "a", problem.Hour, workloadA, ""),
		problem.NewWorkload("wl_b", "b", problem.Hour, workloadB, ""),
	}
	classes := []problem.InstanceClass{
		problem.NewInstanceClass("m1", "m1", 1, problem.Hour, true, 1, 0, nil),
	}
	perf := problem.NewPerformanceSet("perf", problem.Hour).Set("m1", "a", 10).Set("m1", "b", 10)
	p, err := problem.NewProblem("p", "", workloads, classes, nil, perf)
	require.NoError(t, err)
	return p
}

func TestBuild_dedupesAndSortsLexicographically(t *testing.T) {
	p := buildTestProblem(t, []int{30, 10, 10, 20}, []int{3, 1, 1, 2})

	hist := Build(p)

	require.Len(t, hist.Levels, 3)
	assert.Equal(t, []int{10, 1}, hist.Levels[0].Values())
	assert.Equal(t, []int{20, 2}, hist.Levels[1].Values())
	assert.Equal(t, []int{30, 3}, hist.Levels[2].Values())

	assert.Equal(t, 4, hist.T())
	assert.Equal(t, []int{2, 1, 1}, hist.Repeats)

	for slot, idx := range hist.Index {
		values := hist.Levels[idx].Values()
		wantA, wantB := []int{30, 10, 10, 20}[slot], []int{3, 1, 1, 2}[slot]
		assert.Equal(t, wantA, values[0])
		assert.Equal(t, wantB, values[1])
	}
}

func TestRescaleGCD_appliesWhenDivisorFound(t *testing.T) {
	p := buildTestProblem(t, []int{20, 40}, []int{10, 30})
	hist := Build(p)
	perf := p.Performances()
	classes := []problem.ClassID{"m1"}
	apps := p.Apps()

	result := RescaleGCD(&hist, &perf, classes, apps)

	assert.True(t, result.Applied)
	assert.Equal(t, 10, result.Multiplier)
	for _, level := range hist.Levels {
		for _, v := range level.Values() {
			assert.LessOrEqual(t, v, 4)
		}
	}
	v, ok := perf.Value("m1", "a")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestRescaleGCD_disabledByNonIntegerPerformance(t *testing.T) {
	p := buildTestProblem(t, []int{20, 40}, []int{10, 30})
	hist := Build(p)
	perf := p.Performances().Set("m1", "a", 10.5)
	classes := []problem.ClassID{"m1"}

	result := RescaleGCD(&hist, &perf, classes, p.Apps())

	assert.False(t, result.Applied)
	assert.Equal(t, 1, result.Multiplier)
}

func TestRescaleGCD_noopWhenGCDIsOne(t *testing.T) {
	p := buildTestProblem(t, []int{7, 11}, []int{3, 5})
	hist := Build(p)
	perf := p.Performances()

	result := RescaleGCD(&hist, &perf, []problem.ClassID{"m1"}, p.Apps())

	assert.False(t, result.Applied)
}
