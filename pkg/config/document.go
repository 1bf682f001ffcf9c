// Package config implements the YAML problem/solution document schema:
// serializable mirror types distinct from the in-memory domain graph, a
// Build step that resolves id cross-references into it, and I/O helpers
// that transparently accept gzip-compressed documents.
package config

import "gopkg.in/yaml.v3"

// AppDoc mirrors problem.App.
type AppDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LimitingSetDoc mirrors problem.LimitingSet. A zero MaxVMs/MaxCores means
// unbounded, per the domain's zero-is-unbounded convention.
type LimitingSetDoc struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	MaxCores int    `yaml:"max_cores,omitempty"`
	MaxVMs   int    `yaml:"max_vms,omitempty"`
}

// InstanceClassDoc mirrors problem.InstanceClass.
type InstanceClassDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	MaxVMs       int      `yaml:"max_vms"`
	Price        float64  `yaml:"price"`
	TimeUnit     string   `yaml:"time_unit"`
	IsReserved   bool     `yaml:"is_reserved"`
	IsPrivate    bool     `yaml:"is_private,omitempty"`
	Cores        int      `yaml:"cores,omitempty"`
	LimitingSets []string `yaml:"limiting_sets"`
}

// PerformanceValueDoc is one (instance_class, app) -> value entry of a
// PerformanceSetDoc.
type PerformanceValueDoc struct {
	InstanceClass string  `yaml:"instance_class"`
	App           string  `yaml:"app"`
	Value         float64 `yaml:"value"`
}

// PerformanceSetDoc mirrors problem.PerformanceSet.
type PerformanceSetDoc struct {
	ID       string                `yaml:"id"`
	TimeUnit string                `yaml:"time_unit"`
	Values   []PerformanceValueDoc `yaml:"values"`
}

// WorkloadDoc mirrors problem.Workload. Exactly one of Values or Filename
// must be set. Load does not read the external LTWP file Filename names;
// Build rejects a workload that has a Filename but no inline Values.
type WorkloadDoc struct {
	ID          string `yaml:"id"`
	App         string `yaml:"app"`
	TimeUnit    string `yaml:"time_unit"`
	Values      []int  `yaml:"values,omitempty"`
	Filename    string `yaml:"filename,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ProblemDoc mirrors problem.Problem, referencing its parts by id.
type ProblemDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Workloads       []string `yaml:"workloads"`
	InstanceClasses []string `yaml:"instance_classes"`
	Performances    string   `yaml:"performances"`
}

// Document is the top-level shape of a malloovia problem (and, once
// solved, solution) YAML document.
type Document struct {
	Apps            []AppDoc             `yaml:"Apps"`
	LimitingSets    []LimitingSetDoc     `yaml:"Limiting_sets"`
	InstanceClasses []InstanceClassDoc   `yaml:"Instance_classes"`
	Performances    []PerformanceSetDoc  `yaml:"Performances"`
	Workloads       []WorkloadDoc        `yaml:"Workloads"`
	Problems        []ProblemDoc         `yaml:"Problems"`
	Solutions       []SolutionDoc        `yaml:"Solutions,omitempty"`
}

// SolvingStatsDoc mirrors problem.SolvingStats.
type SolvingStatsDoc struct {
	CreationTime float64      `yaml:"creation_time"`
	SolvingTime  float64      `yaml:"solving_time"`
	OptimalCost  *float64     `yaml:"optimal_cost"`
	Algorithm    AlgorithmDoc `yaml:"algorithm"`
}

// AlgorithmDoc mirrors problem.AlgorithmStats.
type AlgorithmDoc struct {
	Name          string  `yaml:"name"`
	Status        string  `yaml:"status"`
	FracGap       float64 `yaml:"frac_gap,omitempty"`
	MaxSeconds    float64 `yaml:"max_seconds,omitempty"`
	Threads       int     `yaml:"threads,omitempty"`
	GCD           bool    `yaml:"gcd"`
	GCDMultiplier int     `yaml:"gcd_multiplier,omitempty"`
}

// ReservedAllocationDoc mirrors problem.ReservedAllocation as parallel
// instance_classes/vms_number arrays.
type ReservedAllocationDoc struct {
	InstanceClasses []string `yaml:"instance_classes"`
	VMsNumber       []int    `yaml:"vms_number"`
}

// AllocationEntryDoc is one non-zero cell of the X[t,k,a] tensor.
type AllocationEntryDoc struct {
	Timeslot      int    `yaml:"timeslot"`
	InstanceClass string `yaml:"instance_class"`
	App           string `yaml:"app"`
	VMs           int    `yaml:"vms"`
}

// AllocationDoc mirrors problem.AllocationInfo as a sparse entry list.
type AllocationDoc struct {
	Entries []AllocationEntryDoc `yaml:"entries"`
}

// StatsOrList holds either a single SolvingStatsDoc (phase-I solutions) or
// an array of them (phase-II solutions): the document format uses the same
// `solving_stats` key for both shapes, discriminated by the surrounding
// solution's kind. yaml.v3's Node-based custom (Un)Marshaler is what lets
// one Go field accept either shape.
type StatsOrList struct {
	Single *SolvingStatsDoc
	List   []SolvingStatsDoc
}

func (s *StatsOrList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var list []SolvingStatsDoc
		if err := value.Decode(&list); err != nil {
			return err
		}
		s.List = list
		return nil
	}
	var single SolvingStatsDoc
	if err := value.Decode(&single); err != nil {
		return err
	}
	s.Single = &single
	return nil
}

func (s StatsOrList) MarshalYAML() (any, error) {
	if s.List != nil {
		return s.List, nil
	}
	return s.Single, nil
}

// SolutionDoc mirrors either a SolutionI (PreviousPhase empty,
// ReservedAllocation set) or a SolutionII (PreviousPhase set,
// GlobalSolvingStats set).
type SolutionDoc struct {
	ID                 string                 `yaml:"id"`
	Problem            string                 `yaml:"problem"`
	PreviousPhase      string                 `yaml:"previous_phase,omitempty"`
	SolvingStats       StatsOrList            `yaml:"solving_stats"`
	ReservedAllocation *ReservedAllocationDoc `yaml:"reserved_allocation,omitempty"`
	GlobalSolvingStats *SolvingStatsDoc       `yaml:"global_solving_stats,omitempty"`
	Allocation         *AllocationDoc         `yaml:"allocation,omitempty"`
}

// IsPhaseII reports whether this item describes a Phase II solution.
func (s SolutionDoc) IsPhaseII() bool {
	return s.PreviousPhase != ""
}
