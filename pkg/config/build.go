package config

import (
	"fmt"

	"github.com/malloovia/malloovia/pkg/problem"
)

func refErr(format string, args ...any) error {
	return &problem.ValidationError{Reason: "unknown cross-reference", Err: fmt.Errorf(format, args...)}
}

// Build resolves a Document's id cross-references into the immutable
// in-memory domain graph, returning every problem defined in it by id.
// Structural violations (unknown cross-reference ids, missing data) are
// reported as *problem.ValidationError, same as NewProblem's own checks.
func Build(doc *Document) (map[string]problem.Problem, error) {
	apps := make(map[string]problem.App, len(doc.Apps))
	for _, a := range doc.Apps {
		apps[a.ID] = problem.NewApp(problem.AppID(a.ID), a.Name)
	}

	limitingSets := make(map[string]problem.LimitingSet, len(doc.LimitingSets))
	for _, s := range doc.LimitingSets {
		limitingSets[s.ID] = problem.NewLimitingSet(problem.SetID(s.ID), s.Name, s.MaxVMs, s.MaxCores)
	}

	classes := make(map[string]problem.InstanceClass, len(doc.InstanceClasses))
	for _, c := range doc.InstanceClasses {
		sets := make([]problem.SetID, len(c.LimitingSets))
		for i, s := range c.LimitingSets {
			if _, ok := limitingSets[s]; !ok {
				return nil, refErr("instance class %s references unknown limiting set %s", c.ID, s)
			}
			sets[i] = problem.SetID(s)
		}
		cores := c.Cores
		if cores == 0 {
			cores = 1
		}
		class := problem.NewInstanceClass(problem.ClassID(c.ID), c.Name, c.Price, problem.TimeUnit(c.TimeUnit), c.IsReserved, cores, c.MaxVMs, sets)
		class = class.WithPrivate(c.IsPrivate)
		classes[c.ID] = class
	}

	perfSets := make(map[string]problem.PerformanceSet, len(doc.Performances))
	for _, ps := range doc.Performances {
		set := problem.NewPerformanceSet(ps.ID, problem.TimeUnit(ps.TimeUnit))
		for _, v := range ps.Values {
			if _, ok := classes[v.InstanceClass]; !ok {
				return nil, refErr("performance set %s references unknown instance class %s", ps.ID, v.InstanceClass)
			}
			if _, ok := apps[v.App]; !ok {
				return nil, refErr("performance set %s references unknown app %s", ps.ID, v.App)
			}
			set = set.Set(problem.ClassID(v.InstanceClass), problem.AppID(v.App), v.Value)
		}
		perfSets[ps.ID] = set
	}

	workloads := make(map[string]problem.Workload, len(doc.Workloads))
	for _, w := range doc.Workloads {
		if _, ok := apps[w.App]; !ok {
			return nil, refErr("workload %s references unknown app %s", w.ID, w.App)
		}
		values := w.Values
		if w.Filename != "" && len(values) == 0 {
			return nil, refErr("workload %s has a filename but no inline values; external LTWP files must be resolved before Build", w.ID)
		}
		workloads[w.ID] = problem.NewWorkload(w.ID, problem.AppID(w.App), problem.TimeUnit(w.TimeUnit), values, w.Description)
	}

	problems := make(map[string]problem.Problem, len(doc.Problems))
	for _, pd := range doc.Problems {
		var ws []problem.Workload
		for _, id := range pd.Workloads {
			w, ok := workloads[id]
			if !ok {
				return nil, refErr("problem %s references unknown workload %s", pd.ID, id)
			}
			ws = append(ws, w)
		}
		var ics []problem.InstanceClass
		var setList []problem.LimitingSet
		seenSet := make(map[problem.SetID]bool)
		for _, id := range pd.InstanceClasses {
			c, ok := classes[id]
			if !ok {
				return nil, refErr("problem %s references unknown instance class %s", pd.ID, id)
			}
			ics = append(ics, c)
			for _, s := range c.LimitingSets() {
				if !seenSet[s] {
					seenSet[s] = true
					setList = append(setList, limitingSets[string(s)])
				}
			}
		}
		perf, ok := perfSets[pd.Performances]
		if !ok {
			return nil, refErr("problem %s references unknown performance set %s", pd.ID, pd.Performances)
		}

		p, err := problem.NewProblem(pd.ID, pd.Name, ws, ics, setList, perf)
		if err != nil {
			return nil, err
		}
		problems[pd.ID] = p
	}

	return problems, nil
}
