package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malloovia/malloovia/pkg/problem"
)

func withCost(status problem.Status, cost float64, creation, solving float64) problem.SolutionII {
	c := cost
	return problem.SolutionII{
		Stats: problem.SolvingStats{
			CreationTime: creation,
			SolvingTime:  solving,
			OptimalCost:  &c,
			Algorithm:    problem.AlgorithmStats{Status: status},
		},
	}
}

func TestGlobal_emptyInput(t *testing.T) {
	g := Global(nil)
	assert.Equal(t, problem.Status(""), g.Status)
	assert.Nil(t, g.OptimalCost)
}

func TestGlobal_sumsTimeAndCostWhenAllOptimal(t *testing.T) {
	results := []problem.SolutionII{
		withCost(problem.StatusOptimal, 10, 0.1, 0.2),
		withCost(problem.StatusOptimal, 20, 0.3, 0.4),
		withCost(problem.StatusTrivial, 0, 0, 0),
	}

	g := Global(results)

	assert.Equal(t, problem.StatusOptimal, g.Status)
	require.NotNil(t, g.OptimalCost)
	assert.Equal(t, 30.0, *g.OptimalCost)
	assert.InDelta(t, 0.4, g.CreationTime, 1e-9)
	assert.InDelta(t, 0.6, g.SolvingTime, 1e-9)
}

func TestGlobal_anyOverfullMakesGlobalOverfull(t *testing.T) {
	results := []problem.SolutionII{
		withCost(problem.StatusOptimal, 10, 0, 0),
		withCost(problem.StatusOverfull, 15, 0, 0),
	}

	g := Global(results)

	assert.Equal(t, problem.StatusOverfull, g.Status)
	require.NotNil(t, g.OptimalCost)
	assert.Equal(t, 25.0, *g.OptimalCost)
}

func TestGlobal_missingCostMeansNoGlobalCost(t *testing.T) {
	noCost := problem.SolutionII{Stats: problem.SolvingStats{Algorithm: problem.AlgorithmStats{Status: problem.StatusAborted}}}
	results := []problem.SolutionII{
		withCost(problem.StatusOptimal, 10, 0, 0),
		noCost,
	}

	g := Global(results)

	assert.Nil(t, g.OptimalCost)
	assert.Equal(t, problem.StatusAborted, g.Status)
}
