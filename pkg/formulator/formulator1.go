// Package formulator turns a Problem (plus, for Phase II, a fixed reserved
// allocation and a single load level) into a backend-agnostic
// backend.Model. It never touches a Solver: it only builds the declarative
// variables, constraints, and objective, and returns an Index the
// orchestrator uses to read values back out of a backend.Result.
package formulator

import (
	"fmt"

	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/problem"
)

// IndexI maps Phase I's decision variables back to the domain entities they
// represent: Y[k] per reserved class, X[l][k][a] per load level, class, app.
type IndexI struct {
	Classes []problem.ClassID
	Apps    []problem.AppID
	Y       map[problem.ClassID]backend.VarID
	X       map[int]map[problem.ClassID]map[problem.AppID]backend.VarID
}

// BuildI builds the Phase I MILP over the full load histogram: one LP per
// reservation horizon, with decision variables indexed by (class, app,
// load level) plus one reserved-count variable per reserved class.
func BuildI(p problem.Problem, hist problem.LoadHistogram) (*backend.Model, *IndexI, error) {
	classes := p.InstanceClasses()
	apps := p.Apps()
	perf := p.Performances()

	m := backend.NewModel()
	idx := &IndexI{
		Classes: classIDs(classes),
		Apps:    apps,
		Y:       make(map[problem.ClassID]backend.VarID),
		X:       make(map[int]map[problem.ClassID]map[problem.AppID]backend.VarID),
	}

	for _, c := range classes {
		if c.IsReserved() {
			idx.Y[c.ID()] = m.AddIntegerVar(c.MaxVMs(), "Y_"+string(c.ID()))
		}
	}
	for l := range hist.Levels {
		idx.X[l] = make(map[problem.ClassID]map[problem.AppID]backend.VarID)
		for _, c := range classes {
			idx.X[l][c.ID()] = make(map[problem.AppID]backend.VarID)
			for _, a := range apps {
				name := fmt.Sprintf("X_%d_%s_%s", l, c.ID(), a)
				idx.X[l][c.ID()][a] = m.AddIntegerVar(0, name)
			}
		}
	}

	objective := make(backend.LinearExpr)
	t := hist.T()
	for _, c := range classes {
		if !c.IsReserved() {
			continue
		}
		objective[idx.Y[c.ID()]] += c.Price() * float64(t)
	}
	for l, repeats := range hist.Repeats {
		for _, c := range classes {
			if c.IsReserved() {
				continue
			}
			for _, a := range apps {
				objective[idx.X[l][c.ID()][a]] += float64(repeats) * c.Price()
			}
		}
	}
	m.SetObjective(objective)

	reserved := make(map[problem.ClassID]reservedTerm, len(idx.Y))
	for class, v := range idx.Y {
		v := v
		reserved[class] = reservedTerm{varID: &v}
	}

	for l := range hist.Levels {
		addLevelConstraints(m, classes, apps, perf, p.LimitingSets(), idx.X[l], reserved, hist.Levels[l], true, fmt.Sprintf("l%d", l))
	}

	return m, idx, nil
}

// reservedTerm is a reserved class's contribution to the reserved-coupling
// and limiting-set constraints: either the Phase I decision variable Y[k]
// (varID non-nil) or the fixed value Phase II inherited from Phase I
// (constant).
type reservedTerm struct {
	varID    *backend.VarID
	constant int
}

// addLevelConstraints emits the performance, reserved-coupling, per-class
// cap, and limiting-set cap constraints for one load level's X variables,
// given the (possibly constant, see BuildII) reserved variable/value
// lookup.
func addLevelConstraints(
	m *backend.Model,
	classes []problem.InstanceClass,
	apps []problem.AppID,
	perf problem.PerformanceSet,
	limitingSets []problem.LimitingSet,
	x map[problem.ClassID]map[problem.AppID]backend.VarID,
	reserved map[problem.ClassID]reservedTerm,
	level problem.LoadLevel,
	includePerf bool,
	tag string,
) {
	// 1. performance, per app.
	if includePerf {
		for _, a := range apps {
			expr := make(backend.LinearExpr)
			for _, c := range classes {
				v, ok := perf.Value(c.ID(), a)
				if !ok || v == 0 {
					continue
				}
				expr[x[c.ID()][a]] += v
			}
			m.AddConstraint(expr, backend.GE, float64(level.For(a)), tag+"_perf_"+string(a))
		}
	}

	// 2. reserved coupling, per reserved class.
	for _, c := range classes {
		if !c.IsReserved() {
			continue
		}
		term, ok := reserved[c.ID()]
		if !ok {
			continue
		}
		expr := make(backend.LinearExpr)
		for _, a := range apps {
			expr[x[c.ID()][a]] += 1
		}
		rhs := 0.0
		if term.varID != nil {
			expr[*term.varID] -= 1
		} else {
			rhs = float64(term.constant)
		}
		m.AddConstraint(expr, backend.LE, rhs, tag+"_reserved_"+string(c.ID()))
	}

	// 3. per-class cap, on-demand only.
	for _, c := range classes {
		if c.IsReserved() || !c.BoundedVMs() {
			continue
		}
		expr := make(backend.LinearExpr)
		for _, a := range apps {
			expr[x[c.ID()][a]] += 1
		}
		m.AddConstraint(expr, backend.LE, float64(c.MaxVMs()), tag+"_cap_"+string(c.ID()))
	}

	// 4 & 5. limiting-set VM and core caps. A reserved class in the set
	// contributes only through its always-on Y[k] pool; an on-demand class
	// contributes only through its per-level X. Adding both for a reserved
	// class would double-count it, since constraint 2 already bounds
	// Σ_a X[l,k,a] by Y[k].
	for _, s := range limitingSets {
		if s.BoundedVMs() {
			expr := make(backend.LinearExpr)
			rhs := float64(s.MaxVMs())
			any := false
			for _, c := range classes {
				if !c.InSet(s.ID()) {
					continue
				}
				any = true
				if c.IsReserved() {
					if term, ok := reserved[c.ID()]; ok {
						if term.varID != nil {
							expr[*term.varID] += 1
						} else {
							rhs -= float64(term.constant)
						}
					}
					continue
				}
				for _, a := range apps {
					expr[x[c.ID()][a]] += 1
				}
			}
			if any {
				m.AddConstraint(expr, backend.LE, rhs, tag+"_setvms_"+string(s.ID()))
			}
		}
		if s.BoundedCores() {
			expr := make(backend.LinearExpr)
			rhs := float64(s.MaxCores())
			any := false
			for _, c := range classes {
				if !c.InSet(s.ID()) {
					continue
				}
				any = true
				cores := float64(c.Cores())
				if c.IsReserved() {
					if term, ok := reserved[c.ID()]; ok {
						if term.varID != nil {
							expr[*term.varID] += cores
						} else {
							rhs -= cores * float64(term.constant)
						}
					}
					continue
				}
				for _, a := range apps {
					expr[x[c.ID()][a]] += cores
				}
			}
			if any {
				m.AddConstraint(expr, backend.LE, rhs, tag+"_setcores_"+string(s.ID()))
			}
		}
	}
}

func classIDs(classes []problem.InstanceClass) []problem.ClassID {
	out := make([]problem.ClassID, len(classes))
	for i, c := range classes {
		out[i] = c.ID()
	}
	return out
}
