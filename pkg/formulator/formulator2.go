package formulator

import (
	"fmt"

	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/problem"
)

// IndexII maps Phase II's decision variables (one X[k,a] per class and app,
// for a single timeslot) back to the domain entities they represent.
type IndexII struct {
	Classes []problem.ClassID
	Apps    []problem.AppID
	X       map[problem.ClassID]map[problem.AppID]backend.VarID
}

// BuildII builds the Phase II MILP for a single load level: Y[k] for
// reserved classes is a fixed constant taken from reserved rather than a
// decision variable, and the objective drops the reserved-amortization
// term entirely, since that cost was already committed by Phase I.
// guided, when non-nil, injects PhaseIIGuided's per-class-per-app lower
// bound X[k,a] >= guided[k][a].
func BuildII(p problem.Problem, reserved problem.ReservedAllocation, level problem.LoadLevel, guided map[problem.ClassID]map[problem.AppID]int) (*backend.Model, *IndexII, error) {
	return buildII(p, reserved, level, guided, true)
}

// BuildIIFallback builds the performance-maximizing LP used when the
// nominal Phase II problem is infeasible: no minimum-performance
// constraint, objective maximizes total served performance instead of
// minimizing on-demand cost.
func BuildIIFallback(p problem.Problem, reserved problem.ReservedAllocation, level problem.LoadLevel) (*backend.Model, *IndexII, error) {
	return buildII(p, reserved, level, nil, false)
}

func buildII(p problem.Problem, reserved problem.ReservedAllocation, level problem.LoadLevel, guided map[problem.ClassID]map[problem.AppID]int, minimizeCost bool) (*backend.Model, *IndexII, error) {
	classes := p.InstanceClasses()
	apps := p.Apps()
	perf := p.Performances()

	m := backend.NewModel()
	idx := &IndexII{
		Classes: classIDs(classes),
		Apps:    apps,
		X:       make(map[problem.ClassID]map[problem.AppID]backend.VarID),
	}

	for _, c := range classes {
		idx.X[c.ID()] = make(map[problem.AppID]backend.VarID)
		for _, a := range apps {
			name := fmt.Sprintf("X_%s_%s", c.ID(), a)
			idx.X[c.ID()][a] = m.AddIntegerVar(0, name)
		}
	}

	reservedTerms := make(map[problem.ClassID]reservedTerm, len(reserved.Classes))
	for _, class := range reserved.Classes {
		reservedTerms[class] = reservedTerm{constant: reserved.Get(class)}
	}

	objective := make(backend.LinearExpr)
	if minimizeCost {
		for _, c := range classes {
			if c.IsReserved() {
				continue
			}
			for _, a := range apps {
				objective[idx.X[c.ID()][a]] += c.Price()
			}
		}
	} else {
		for _, c := range classes {
			for _, a := range apps {
				v, ok := perf.Value(c.ID(), a)
				if !ok {
					continue
				}
				objective[idx.X[c.ID()][a]] -= v // maximize => minimize the negation
			}
		}
	}
	m.SetObjective(objective)

	addLevelConstraints(m, classes, apps, perf, p.LimitingSets(), idx.X, reservedTerms, level, minimizeCost, "t")

	for class, perApp := range guided {
		for app, lb := range perApp {
			if lb <= 0 {
				continue
			}
			v, ok := idx.X[class][app]
			if !ok {
				continue
			}
			m.AddConstraint(backend.LinearExpr{v: 1}, backend.GE, float64(lb), fmt.Sprintf("guided_%s_%s", class, app))
		}
	}

	return m, idx, nil
}
