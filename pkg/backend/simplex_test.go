package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplexBackend_Solve_emptyModelIsTriviallyOptimal(t *testing.T) {
	s := SimplexBackend{}
	m := NewModel()

	result, err := s.Solve(m, Config{})

	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Status)
	obj, ok := result.ObjectiveValue()
	assert.True(t, ok)
	assert.Equal(t, 0.0, obj)
}

// A single variable minimized subject to x >= 3 and x <= 10 should settle at
// the lower bound, 3, with objective 3.
func TestSimplexBackend_Solve_singleVariableLowerBound(t *testing.T) {
	s := SimplexBackend{}
	m := NewModel()
	x := m.AddIntegerVar(10, "x")
	m.AddConstraint(LinearExpr{x: 1}, GE, 3, "x_lb")
	m.SetObjective(LinearExpr{x: 1})

	result, err := s.Solve(m, Config{})

	require.NoError(t, err)
	require.Equal(t, Optimal, result.Status)
	assert.Equal(t, 3, result.Value(x))
	obj, ok := result.ObjectiveValue()
	require.True(t, ok)
	assert.InDelta(t, 3.0, obj, 1e-6)
}

func TestSimplexBackend_Solve_infeasibleRootReportsInfeasible(t *testing.T) {
	s := SimplexBackend{}
	m := NewModel()
	x := m.AddIntegerVar(0, "x")
	m.AddConstraint(LinearExpr{x: 1}, LE, 2, "x_ub")
	m.AddConstraint(LinearExpr{x: 1}, GE, 5, "x_lb")
	m.SetObjective(LinearExpr{x: 1})

	result, err := s.Solve(m, Config{})

	require.NoError(t, err)
	assert.Equal(t, Infeasible, result.Status)
}

func TestSimplexBackend_Solve_respectsMaxSecondsDeadline(t *testing.T) {
	s := SimplexBackend{}
	m := NewModel()
	x := m.AddIntegerVar(100, "x")
	y := m.AddIntegerVar(100, "y")
	m.AddConstraint(LinearExpr{x: 1, y: 1}, LE, 150, "cap")
	m.SetObjective(LinearExpr{x: -1, y: -1})

	result, err := s.Solve(m, Config{MaxSeconds: 1e-9})

	require.NoError(t, err)
	assert.Contains(t, []Status{Optimal, Aborted}, result.Status)
}
