package backend

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SimplexBackend is the reference Solver: every node of a branch-and-bound
// search relaxes the current subproblem to a linear program and solves it
// with gonum's simplex implementation, in the same shape as the
// branch-and-bound-over-a-simplex-relaxation design this was adapted from.
// It needs no external solver binary, at the cost of not scaling to the
// MILPs a dedicated CBC/Gurobi/HiGHS binding would handle.
type SimplexBackend struct {
	// Epsilon is the tolerance used to decide whether a simplex variable
	// value is "close enough" to an integer. Defaults to 1e-6 when zero.
	Epsilon float64
}

const defaultEpsilon = 1e-6

// bound is a tightened [lo, hi] range for one variable, accumulated along a
// branch-and-bound path. hi < 0 means unbounded above.
type bound struct {
	lo, hi int
}

func (b bound) hasUpper() bool { return b.hi >= 0 }

type node struct {
	bounds map[VarID]bound
}

func (s SimplexBackend) epsilon() float64 {
	if s.Epsilon > 0 {
		return s.Epsilon
	}
	return defaultEpsilon
}

// Solve implements Solver.
func (s SimplexBackend) Solve(model *Model, cfg Config) (Result, error) {
	n := model.NumVars()
	if n == 0 {
		zero := 0.0
		return Result{Status: Optimal, Values: map[VarID]int{}, Objective: &zero}, nil
	}

	var deadline time.Time
	if cfg.MaxSeconds > 0 {
		deadline = time.Now().Add(time.Duration(cfg.MaxSeconds * float64(time.Second)))
	}

	fracGap := cfg.FracGap
	if fracGap < 0 {
		fracGap = 0
	}

	root := node{bounds: map[VarID]bound{}}
	stack := []node{root}

	var (
		bestObjective float64 = math.Inf(1)
		bestValues    map[VarID]int
		rootInfeasible bool
		sawTimeout     bool
	)

	for len(stack) > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			sawTimeout = true
			break
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, obj, err := s.solveRelaxation(model, cur.bounds)
		if err != nil {
			if len(cur.bounds) == 0 {
				rootInfeasible = true
			}
			continue
		}

		if obj >= bestObjective-1e-9 {
			continue // bound pruning: this branch cannot improve on the incumbent
		}
		if bestValues != nil && fracGap > 0 && bestObjective > 0 {
			if (bestObjective-obj)/bestObjective <= fracGap {
				continue
			}
		}

		branchVar, integral := s.mostFractional(x, n)
		if integral {
			values := make(map[VarID]int, n)
			for i := 0; i < n; i++ {
				values[VarID(i)] = roundNonNeg(x[i])
			}
			bestObjective = obj
			bestValues = values
			continue
		}

		floorVal := int(math.Floor(x[branchVar]))
		ceilVal := floorVal + 1

		lowChild := cur.withUpper(branchVar, floorVal)
		highChild := cur.withLower(branchVar, ceilVal)
		stack = append(stack, lowChild, highChild)
	}

	if bestValues == nil {
		if rootInfeasible {
			return Result{Status: Infeasible}, nil
		}
		if sawTimeout {
			return Result{Status: Aborted}, nil
		}
		return Result{Status: IntegerInfeasible}, nil
	}

	obj := bestObjective
	return Result{Status: Optimal, Values: bestValues, Objective: &obj}, nil
}

func (n node) withUpper(v VarID, hi int) node {
	return n.with(v, func(b bound) bound {
		if !b.hasUpper() || hi < b.hi {
			b.hi = hi
		}
		return b
	})
}

func (n node) withLower(v VarID, lo int) node {
	return n.with(v, func(b bound) bound {
		if lo > b.lo {
			b.lo = lo
		}
		return b
	})
}

func (n node) with(v VarID, f func(bound) bound) node {
	out := make(map[VarID]bound, len(n.bounds)+1)
	for k, b := range n.bounds {
		out[k] = b
	}
	b, ok := out[v]
	if !ok {
		b = bound{lo: 0, hi: -1}
	}
	out[v] = f(b)
	return node{bounds: out}
}

// mostFractional picks the variable whose fractional part is closest to
// one half, or reports that the relaxation solution is already integral.
func (s SimplexBackend) mostFractional(x []float64, n int) (VarID, bool) {
	best := VarID(-1)
	bestDist := -1.0
	eps := s.epsilon()
	for i := 0; i < n; i++ {
		frac := x[i] - math.Floor(x[i])
		if frac < eps || frac > 1-eps {
			continue
		}
		dist := math.Abs(frac - 0.5)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = VarID(i)
		}
	}
	if best < 0 {
		return 0, true
	}
	return best, false
}

// solveRelaxation builds the standard-form LP for model tightened by
// bounds and solves it with gonum's simplex. Returns the values of the
// model's original variables (slack columns are dropped) and the
// objective.
func (s SimplexBackend) solveRelaxation(model *Model, bounds map[VarID]bound) ([]float64, float64, error) {
	n := model.NumVars()

	type row struct {
		coeffs map[VarID]float64
		sense  Sense
		rhs    float64
	}
	var rows []row

	for _, c := range model.Constraints {
		rows = append(rows, row{coeffs: c.Expr, sense: c.Sense, rhs: c.RHS})
	}
	for v, b := range bounds {
		if b.lo > 0 {
			rows = append(rows, row{coeffs: LinearExpr{v: 1}, sense: GE, rhs: float64(b.lo)})
		}
		if b.hasUpper() {
			rows = append(rows, row{coeffs: LinearExpr{v: 1}, sense: LE, rhs: float64(b.hi)})
		}
	}

	m := len(rows)
	if m == 0 {
		// No constraints at all: the relaxation is unbounded below unless
		// the objective is identically zero, which cannot happen for a
		// well-formed malloovia model (every variable appears in at least
		// the performance constraint).
		return nil, 0, errors.New("backend: model has no constraints")
	}

	slackCols := m
	total := n + slackCols

	aData := make([]float64, m*total)
	b := make([]float64, m)

	for i, r := range rows {
		coeffs := r.coeffs
		sense := r.sense
		rhs := r.rhs
		sign := 1.0
		if rhs < 0 {
			sign = -1.0
			rhs = -rhs
			switch sense {
			case LE:
				sense = GE
			case GE:
				sense = LE
			}
		}
		for v, coeff := range coeffs {
			aData[i*total+int(v)] = sign * coeff
		}
		switch sense {
		case LE:
			aData[i*total+n+i] = 1
		case GE:
			aData[i*total+n+i] = -1
		case EQ:
			// no slack column contributes; column stays zero and is simply
			// never used by the optimal basis.
		}
		b[i] = rhs
	}

	c := make([]float64, total)
	for v, coeff := range model.Objective {
		c[int(v)] = coeff
	}

	A := mat.NewDense(m, total, aData)

	_, xFull, err := lp.Simplex(c, A, b, 0, nil)
	if err != nil {
		return nil, 0, err
	}

	x := xFull[:n]
	obj := 0.0
	for v, coeff := range model.Objective {
		obj += coeff * xFull[int(v)]
	}
	return x, obj, nil
}

func roundNonNeg(v float64) int {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	return int(r)
}
