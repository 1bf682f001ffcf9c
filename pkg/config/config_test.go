package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malloovia/malloovia/pkg/problem"
)

func sampleDocument() *Document {
	return &Document{
		Apps: []AppDoc{{ID: "a0", Name: "app 0"}, {ID: "a1", Name: "app 1"}},
		InstanceClasses: []InstanceClassDoc{
			{ID: "m1", Name: "m1", Price: 0.2, TimeUnit: "h", IsReserved: true, MaxVMs: 50, Cores: 1},
			{ID: "m1_od", Name: "m1 od", Price: 0.4, TimeUnit: "h", IsReserved: false, Cores: 1},
		},
		Performances: []PerformanceSetDoc{
			{
				ID:       "perf1",
				TimeUnit: "h",
				Values: []PerformanceValueDoc{
					{InstanceClass: "m1", App: "a0", Value: 100},
					{InstanceClass: "m1", App: "a1", Value: 100},
					{InstanceClass: "m1_od", App: "a0", Value: 100},
					{InstanceClass: "m1_od", App: "a1", Value: 100},
				},
			},
		},
		Workloads: []WorkloadDoc{
			{ID: "wl_a0", App: "a0", TimeUnit: "h", Values: []int{500, 1000}},
			{ID: "wl_a1", App: "a1", TimeUnit: "h", Values: []int{200, 300}},
		},
		Problems: []ProblemDoc{
			{
				ID:              "p1",
				Name:            "two apps",
				Workloads:       []string{"wl_a0", "wl_a1"},
				InstanceClasses: []string{"m1", "m1_od"},
				Performances:    "perf1",
			},
		},
	}
}

func TestBuild_resolvesValidDocument(t *testing.T) {
	doc := sampleDocument()

	problems, err := Build(doc)

	require.NoError(t, err)
	require.Contains(t, problems, "p1")
	assert.Equal(t, 2, problems["p1"].T())
}

func TestBuild_rejectsUnknownWorkloadReference(t *testing.T) {
	doc := sampleDocument()
	doc.Problems[0].Workloads = append(doc.Problems[0].Workloads, "does-not-exist")

	_, err := Build(doc)

	require.Error(t, err)
	var verr *problem.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBuild_rejectsUnknownInstanceClassReference(t *testing.T) {
	doc := sampleDocument()
	doc.Problems[0].InstanceClasses = append(doc.Problems[0].InstanceClasses, "ghost")

	_, err := Build(doc)

	require.Error(t, err)
}

func TestBuild_rejectsUnknownPerformanceSetReference(t *testing.T) {
	doc := sampleDocument()
	doc.Problems[0].Performances = "missing-perf"

	_, err := Build(doc)

	require.Error(t, err)
}

func TestStatsOrList_marshalsSingleAndList(t *testing.T) {
	single := StatsOrList{Single: &SolvingStatsDoc{CreationTime: 1}}
	out, err := single.MarshalYAML()
	require.NoError(t, err)
	assert.IsType(t, &SolvingStatsDoc{}, out)

	list := StatsOrList{List: []SolvingStatsDoc{{CreationTime: 1}, {CreationTime: 2}}}
	out, err = list.MarshalYAML()
	require.NoError(t, err)
	assert.IsType(t, []SolvingStatsDoc{}, out)
}

func TestLoadSave_roundTripsPlainYAML(t *testing.T) {
	doc := sampleDocument()
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.yaml")

	require.NoError(t, Save(path, doc))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, loaded.Apps, 2)
	assert.Len(t, loaded.Problems, 1)
	assert.Equal(t, "p1", loaded.Problems[0].ID)
}

func TestLoadSave_roundTripsGzipTransparently(t *testing.T) {
	doc := sampleDocument()
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.yaml.gz")

	require.NoError(t, Save(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b, "expected gzip magic bytes")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "p1", loaded.Problems[0].ID)
}

func TestSolutionIDoc_rendersReservedAllocationAndSparseEntries(t *testing.T) {
	doc := sampleDocument()
	problems, err := Build(doc)
	require.NoError(t, err)
	p := problems["p1"]

	reserved := problem.NewReservedAllocation([]problem.ClassID{"m1", "m1_od"}).Set("m1", 16)
	levels := []problem.LoadLevel{problem.NewLoadLevel(p.Apps(), []int{1000, 300})}
	alloc := problem.NewAllocationInfo(levels, []problem.ClassID{"m1", "m1_od"}, p.Apps())
	alloc.Set(0, "m1", "a0", 16)

	sol := problem.SolutionI{Problem: p, Reserved: reserved, Allocation: alloc}
	out := SolutionIDoc("p1-phase-i", sol)

	require.NotNil(t, out.ReservedAllocation)
	assert.Equal(t, []int{16}, []int{out.ReservedAllocation.VMsNumber[indexOf(out.ReservedAllocation.InstanceClasses, "m1")]})
	require.NotNil(t, out.Allocation)
	assert.Equal(t, []AllocationEntryDoc{{Timeslot: 0, InstanceClass: "m1", App: "a0", VMs: 16}}, out.Allocation.Entries)
}

func indexOf(ss []string, v string) int {
	for i, s := range ss {
		if s == v {
			return i
		}
	}
	return -1
}
