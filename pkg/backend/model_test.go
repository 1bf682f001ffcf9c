package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_AddIntegerVar_boundedAddsUpperConstraint(t *testing.T) {
	m := NewModel()
	v := m.AddIntegerVar(5, "x")

	assert.Equal(t, VarID(0), v)
	assert.Equal(t, 1, m.NumVars())
	if assert.Len(t, m.Constraints, 1) {
		assert.Equal(t, LE, m.Constraints[0].Sense)
		assert.Equal(t, 5.0, m.Constraints[0].RHS)
		assert.Equal(t, 1.0, m.Constraints[0].Expr[v])
	}
}

func TestModel_AddIntegerVar_unboundedAddsNoConstraint(t *testing.T) {
	m := NewModel()
	m.AddIntegerVar(0, "x")
	m.AddIntegerVar(-1, "y")

	assert.Len(t, m.Constraints, 0)
}

func TestModel_SetObjective_replacesPrevious(t *testing.T) {
	m := NewModel()
	v := m.AddIntegerVar(0, "x")
	m.SetObjective(LinearExpr{v: 1})
	m.SetObjective(LinearExpr{v: 2})

	assert.Equal(t, 2.0, m.Objective[v])
}

func TestSense_String(t *testing.T) {
	assert.Equal(t, "<=", LE.String())
	assert.Equal(t, "=", EQ.String())
	assert.Equal(t, ">=", GE.String())
}

func TestResult_ValueAndObjective(t *testing.T) {
	obj := 42.0
	r := Result{Values: map[VarID]int{0: 7}, Objective: &obj}

	assert.Equal(t, 7, r.Value(0))
	assert.Equal(t, 0, r.Value(1))

	v, ok := r.ObjectiveValue()
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
}

func TestResult_ObjectiveValue_nilIsNotOK(t *testing.T) {
	r := Result{}
	_, ok := r.ObjectiveValue()
	assert.False(t, ok)
}
