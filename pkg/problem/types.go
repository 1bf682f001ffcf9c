// Package problem defines the immutable domain model malloovia solves over:
// apps, limiting sets, instance classes, performance sets, workloads, and the
// problem that ties them together, plus the entities derived by the solver
// (load levels, histograms, allocations, and solving statistics).
package problem

import "fmt"

// TimeUnit is the unit a price, a performance value, or a workload value is
// expressed against. NewProblem rejects workloads whose time units differ
// (see ValidationError); the time units of instance classes and of the
// performance set are not compared against the workloads'.
type TimeUnit string

const (
	Year   TimeUnit = "y"
	Hour   TimeUnit = "h"
	Minute TimeUnit = "m"
	Second TimeUnit = "s"
)

// AppID, ClassID, and SetID identify entities within a Problem. They are
// opaque strings taken verbatim from the document ids.
type AppID string
type ClassID string
type SetID string

// App is an application with demand to be served. Identity is ID.
type App struct {
	id   AppID
	name string
}

func NewApp(id AppID, name string) App {
	return App{id: id, name: name}
}

func (a App) ID() AppID      { return a.id }
func (a App) Name() string   { return a.name }
func (a App) String() string { return fmt.Sprintf("App(%s, %q)", a.id, a.name) }

// LimitingSet groups instance classes under a shared VM and/or core cap.
// A zero bound means "unbounded".
type LimitingSet struct {
	id       SetID
	name     string
	maxVMs   int
	maxCores int
}

func NewLimitingSet(id SetID, name string, maxVMs, maxCores int) LimitingSet {
	return LimitingSet{id: id, name: name, maxVMs: maxVMs, maxCores: maxCores}
}

func (s LimitingSet) ID() SetID      { return s.id }
func (s LimitingSet) Name() string   { return s.name }
func (s LimitingSet) MaxVMs() int    { return s.maxVMs }
func (s LimitingSet) MaxCores() int  { return s.maxCores }
func (s LimitingSet) BoundedVMs() bool   { return s.maxVMs > 0 }
func (s LimitingSet) BoundedCores() bool { return s.maxCores > 0 }

func (s LimitingSet) String() string {
	return fmt.Sprintf("LimitingSet(%s, maxVMs=%d, maxCores=%d)", s.id, s.maxVMs, s.maxCores)
}

// InstanceClass is a VM flavor: a price per TimeUnit, a reserved/on-demand
// pricing regime, a core count, an optional per-class VM cap, and the
// limiting sets it belongs to.
type InstanceClass struct {
	id           ClassID
	name         string
	price        float64
	timeUnit     TimeUnit
	isReserved   bool
	isPrivate    bool
	cores        int
	maxVMs       int
	limitingSets []SetID
}

func NewInstanceClass(id ClassID, name string, price float64, unit TimeUnit, isReserved bool, cores, maxVMs int, limitingSets []SetID) InstanceClass {
	if cores <= 0 {
		cores = 1
	}
	return InstanceClass{
		id:           id,
		name:         name,
		price:        price,
		timeUnit:     unit,
		isReserved:   isReserved,
		cores:        cores,
		maxVMs:       maxVMs,
		limitingSets: append([]SetID(nil), limitingSets...),
	}
}

func (c InstanceClass) ID() ClassID           { return c.id }
func (c InstanceClass) Name() string          { return c.name }
func (c InstanceClass) Price() float64        { return c.price }
func (c InstanceClass) TimeUnit() TimeUnit     { return c.timeUnit }
func (c InstanceClass) IsReserved() bool      { return c.isReserved }
func (c InstanceClass) IsPrivate() bool       { return c.isPrivate }
func (c InstanceClass) Cores() int            { return c.cores }
func (c InstanceClass) MaxVMs() int           { return c.maxVMs }
func (c InstanceClass) BoundedVMs() bool      { return c.maxVMs > 0 }
func (c InstanceClass) LimitingSets() []SetID { return append([]SetID(nil), c.limitingSets...) }

func (c InstanceClass) InSet(set SetID) bool {
	for _, s := range c.limitingSets {
		if s == set {
			return true
		}
	}
	return false
}

func (c InstanceClass) WithPrivate(isPrivate bool) InstanceClass {
	c.isPrivate = isPrivate
	return c
}

func (c InstanceClass) String() string {
	kind := "on-demand"
	if c.isReserved {
		kind = "reserved"
	}
	return fmt.Sprintf("InstanceClass(%s, %s, price=%.4f/%s, cores=%d)", c.id, kind, c.price, c.timeUnit, c.cores)
}

// PerformanceSet holds, for a given TimeUnit, the number of requests a single
// VM of a class can serve for an app per time unit. Every (class, app) pair
// used by a Problem must be present.
type PerformanceSet struct {
	id       string
	timeUnit TimeUnit
	values   map[ClassID]map[AppID]float64
}

func NewPerformanceSet(id string, unit TimeUnit) PerformanceSet {
	return PerformanceSet{id: id, timeUnit: unit, values: make(map[ClassID]map[AppID]float64)}
}

func (p PerformanceSet) ID() string        { return p.id }
func (p PerformanceSet) TimeUnit() TimeUnit { return p.timeUnit }

// Set records the performance of class on app. Returns the updated set: the
// receiver's map is shared, not copied, so callers must only call Set while
// building a PerformanceSet that has not yet been published into a Problem.
func (p PerformanceSet) Set(class ClassID, app AppID, value float64) PerformanceSet {
	row, ok := p.values[class]
	if !ok {
		row = make(map[AppID]float64)
		p.values[class] = row
	}
	row[app] = value
	return p
}

// Value returns the performance of class serving app, and whether an entry
// exists at all.
func (p PerformanceSet) Value(class ClassID, app AppID) (float64, bool) {
	row, ok := p.values[class]
	if !ok {
		return 0, false
	}
	v, ok := row[app]
	return v, ok
}

func (p PerformanceSet) String() string {
	return fmt.Sprintf("PerformanceSet(%s, %s, %d classes)", p.id, p.timeUnit, len(p.values))
}

// Workload is an app's per-timeslot request count sequence.
type Workload struct {
	id          string
	app         AppID
	timeUnit    TimeUnit
	values      []int
	description string
}

func NewWorkload(id string, app AppID, unit TimeUnit, values []int, description string) Workload {
	return Workload{
		id:          id,
		app:         app,
		timeUnit:    unit,
		values:      append([]int(nil), values...),
		description: description,
	}
}

func (w Workload) ID() string          { return w.id }
func (w Workload) App() AppID          { return w.app }
func (w Workload) TimeUnit() TimeUnit   { return w.timeUnit }
func (w Workload) Values() []int       { return append([]int(nil), w.values...) }
func (w Workload) Len() int            { return len(w.values) }
func (w Workload) Description() string { return w.description }

func (w Workload) String() string {
	return fmt.Sprintf("Workload(%s, app=%s, T=%d)", w.id, w.app, len(w.values))
}

// Problem ties together a set of workloads (one per app), the catalog of
// instance classes available, and the performance set relating them. All
// workloads share length T and TimeUnit; every instance class has a
// performance entry for every app. Construct via NewProblem, not directly.
type Problem struct {
	id               string
	name             string
	workloads        []Workload
	instanceClasses  []InstanceClass
	limitingSets     map[SetID]LimitingSet
	performances     PerformanceSet
}

func (p Problem) ID() string                     { return p.id }
func (p Problem) Name() string                    { return p.name }
func (p Problem) Workloads() []Workload           { return append([]Workload(nil), p.workloads...) }
func (p Problem) InstanceClasses() []InstanceClass { return append([]InstanceClass(nil), p.instanceClasses...) }
func (p Problem) Performances() PerformanceSet     { return p.performances }

func (p Problem) LimitingSet(id SetID) (LimitingSet, bool) {
	s, ok := p.limitingSets[id]
	return s, ok
}

func (p Problem) LimitingSets() []LimitingSet {
	out := make([]LimitingSet, 0, len(p.limitingSets))
	for _, s := range p.limitingSets {
		out = append(out, s)
	}
	return out
}

// Apps returns the apps referenced by the problem's workloads, in workload
// order.
func (p Problem) Apps() []AppID {
	out := make([]AppID, len(p.workloads))
	for i, w := range p.workloads {
		out[i] = w.App()
	}
	return out
}

// T is the number of timeslots modelled, common to all workloads.
func (p Problem) T() int {
	if len(p.workloads) == 0 {
		return 0
	}
	return p.workloads[0].Len()
}

// TimeUnit is the common time unit of the problem's workloads.
func (p Problem) TimeUnit() TimeUnit {
	if len(p.workloads) == 0 {
		return ""
	}
	return p.workloads[0].TimeUnit()
}

// WithPerformances returns a copy of p with its performance set replaced.
// Used by GCD rescaling (histogram.RescaleGCD), which divides performance
// values by the histogram's GCD before formulation; it does not re-run
// NewProblem's validation since the (class, app) coverage is unchanged.
func (p Problem) WithPerformances(perf PerformanceSet) Problem {
	p.performances = perf
	return p
}

// ReservedClasses returns the reserved-pricing instance classes, in problem
// order.
func (p Problem) ReservedClasses() []InstanceClass {
	var out []InstanceClass
	for _, c := range p.instanceClasses {
		if c.IsReserved() {
			out = append(out, c)
		}
	}
	return out
}

// OnDemandClasses returns the on-demand-pricing instance classes, in problem
// order.
func (p Problem) OnDemandClasses() []InstanceClass {
	var out []InstanceClass
	for _, c := range p.instanceClasses {
		if !c.IsReserved() {
			out = append(out, c)
		}
	}
	return out
}

func (p Problem) String() string {
	return fmt.Sprintf("Problem(%s, %d apps, %d classes, T=%d)", p.id, len(p.workloads), len(p.instanceClasses), p.T())
}
