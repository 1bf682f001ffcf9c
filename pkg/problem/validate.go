package problem

import "fmt"

// ValidationError reports a structural configuration defect detected before
// any solve is attempted: a missing performance entry, inconsistent time
// units, workloads of differing length, or an unknown cross-reference id.
// It is the only failure class in malloovia that propagates as a Go error
// out of the solver boundary; every other failure surfaces through
// SolvingStats.Algorithm.Status instead.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid problem: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid problem: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(reason string, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Err: fmt.Errorf(format, args...)}
}

// NewProblem validates and constructs a Problem from its parts: distinct
// apps across workloads, every limiting-set reference resolvable, every
// (class, app) pair present in performances, and all workloads sharing
// length and time unit.
func NewProblem(id, name string, workloads []Workload, instanceClasses []InstanceClass, limitingSets []LimitingSet, performances PerformanceSet) (Problem, error) {
	if len(workloads) == 0 {
		return Problem{}, invalid("no workloads", "a problem must reference at least one workload")
	}

	seenApp := make(map[AppID]bool, len(workloads))
	for _, w := range workloads {
		if seenApp[w.App()] {
			return Problem{}, invalid("duplicate app", "app %s referenced by more than one workload", w.App())
		}
		seenApp[w.App()] = true
	}

	t := workloads[0].Len()
	unit := workloads[0].TimeUnit()
	for _, w := range workloads[1:] {
		if w.Len() != t {
			return Problem{}, invalid("workload length mismatch", "workload %s has length %d, expected %d", w.ID(), w.Len(), t)
		}
		if w.TimeUnit() != unit {
			return Problem{}, invalid("time unit mismatch", "workload %s has time unit %s, expected %s", w.ID(), w.TimeUnit(), unit)
		}
	}

	if len(instanceClasses) == 0 {
		return Problem{}, invalid("no instance classes", "a problem must reference at least one instance class")
	}

	setIndex := make(map[SetID]LimitingSet, len(limitingSets))
	for _, s := range limitingSets {
		setIndex[s.ID()] = s
	}
	for _, c := range instanceClasses {
		for _, ref := range c.LimitingSets() {
			if _, ok := setIndex[ref]; !ok {
				return Problem{}, invalid("unknown limiting set", "instance class %s references unknown limiting set %s", c.ID(), ref)
			}
		}
	}

	for _, c := range instanceClasses {
		for app := range seenApp {
			if _, ok := performances.Value(c.ID(), app); !ok {
				return Problem{}, invalid("missing performance entry", "no performance value for class %s, app %s", c.ID(), app)
			}
		}
	}

	return Problem{
		id:              id,
		name:            name,
		workloads:       append([]Workload(nil), workloads...),
		instanceClasses: append([]InstanceClass(nil), instanceClasses...),
		limitingSets:    setIndex,
		performances:    performances,
	}, nil
}
