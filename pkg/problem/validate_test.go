package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoAppWorkloads() []Workload {
	return []Workload{
		NewWorkload("wl_a0", "a0", Hour, []int{10, 20, 10}, ""),
		NewWorkload("wl_a1", "a1", Hour, []int{5, 5, 15}, ""),
	}
}

func twoAppClasses() []InstanceClass {
	return []InstanceClass{
		NewInstanceClass("m3large_z1", "m3.large", 0.2, Hour, true, 2, 50, nil),
		NewInstanceClass("m3large_z1_od", "m3.large (on-demand)", 0.3, Hour, false, 2, 0, nil),
	}
}

func twoAppPerformances() PerformanceSet {
	perf := NewPerformanceSet("perf1", Hour)
	perf = perf.Set("m3large_z1", "a0", 100)
	perf = perf.Set("m3large_z1", "a1", 100)
	perf = perf.Set("m3large_z1_od", "a0", 100)
	perf = perf.Set("m3large_z1_od", "a1", 100)
	return perf
}

func TestNewProblem_valid(t *testing.T) {
	p, err := NewProblem("p1", "two apps", twoAppWorkloads(), twoAppClasses(), nil, twoAppPerformances())
	require.NoError(t, err)
	assert.Equal(t, 3, p.T())
	assert.ElementsMatch(t, []AppID{"a0", "a1"}, p.Apps())
	assert.Len(t, p.ReservedClasses(), 1)
	assert.Len(t, p.OnDemandClasses(), 1)
}

func TestNewProblem_rejectsNoWorkloads(t *testing.T) {
	_, err := NewProblem("p1", "", nil, twoAppClasses(), nil, twoAppPerformances())
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewProblem_rejectsDuplicateApp(t *testing.T) {
	workloads := []Workload{
		NewWorkload("wl_a0", "a0", Hour, []int{10}, ""),
		NewWorkload("wl_a0_dup", "a0", Hour, []int{5}, ""),
	}
	_, err := NewProblem("p1", "", workloads, twoAppClasses(), nil, twoAppPerformances())
	require.Error(t, err)
}

func TestNewProblem_rejectsMismatchedWorkloadLength(t *testing.T) {
	workloads := []Workload{
		NewWorkload("wl_a0", "a0", Hour, []int{10, 20}, ""),
		NewWorkload("wl_a1", "a1", Hour, []int{5}, ""),
	}
	_, err := NewProblem("p1", "", workloads, twoAppClasses(), nil, twoAppPerformances())
	require.Error(t, err)
}

func TestNewProblem_rejectsMismatchedTimeUnit(t *testing.T) {
	workloads := []Workload{
		NewWorkload("wl_a0", "a0", Hour, []int{10, 20}, ""),
		NewWorkload("wl_a1", "a1", Minute, []int{5, 5}, ""),
	}
	_, err := NewProblem("p1", "", workloads, twoAppClasses(), nil, twoAppPerformances())
	require.Error(t, err)
}

func TestNewProblem_rejectsMissingPerformanceEntry(t *testing.T) {
	perf := NewPerformanceSet("perf1", Hour)
	perf = perf.Set("m3large_z1", "a0", 100)
	// a1 entries missing entirely.
	_, err := NewProblem("p1", "", twoAppWorkloads(), twoAppClasses(), nil, perf)
	require.Error(t, err)
}

func TestNewProblem_rejectsUnknownLimitingSetReference(t *testing.T) {
	classes := []InstanceClass{
		NewInstanceClass("m3large_z1", "m3.large", 0.2, Hour, true, 2, 50, []SetID{"zone1"}),
	}
	workloads := []Workload{NewWorkload("wl_a0", "a0", Hour, []int{10}, "")}
	perf := NewPerformanceSet("perf1", Hour).Set("m3large_z1", "a0", 100)
	_, err := NewProblem("p1", "", workloads, classes, nil, perf)
	require.Error(t, err)
}

func TestNewProblem_acceptsKnownLimitingSetReference(t *testing.T) {
	set := NewLimitingSet("zone1", "zone 1", 0, 0)
	classes := []InstanceClass{
		NewInstanceClass("m3large_z1", "m3.large", 0.2, Hour, true, 2, 50, []SetID{"zone1"}),
	}
	workloads := []Workload{NewWorkload("wl_a0", "a0", Hour, []int{10}, "")}
	perf := NewPerformanceSet("perf1", Hour).Set("m3large_z1", "a0", 100)
	p, err := NewProblem("p1", "", workloads, classes, []LimitingSet{set}, perf)
	require.NoError(t, err)
	s, ok := p.LimitingSet("zone1")
	require.True(t, ok)
	assert.False(t, s.BoundedVMs())
}
