// Package backend defines the abstract MILP backend contract the core
// solver consumes: a declarative Model built by a formulator, and a Solver
// capable of optimizing it. SimplexBackend is the reference implementation
// shipped with this module; any other type satisfying Solver is pluggable
// in its place.
package backend

// Sense is the comparison operator of a linear constraint.
type Sense int

const (
	LE Sense = iota // <=
	EQ              // =
	GE              // >=
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case EQ:
		return "="
	case GE:
		return ">="
	default:
		return "?"
	}
}

// VarID identifies a decision variable within a Model. Variables are
// numbered in the order AddIntegerVar was called, starting at 0.
type VarID int

// LinearExpr is a sparse linear combination of variables: coefficient by
// VarID. Variables absent from the map have an implicit coefficient of 0.
type LinearExpr map[VarID]float64

// VarBound describes one decision variable. All malloovia decision
// variables are non-negative integers; MaxBound <= 0 means unbounded,
// consistent with the zero-is-unbounded convention used throughout the
// domain model for limiting sets.
type VarBound struct {
	Name     string
	MaxBound int
}

// Constraint is one linear inequality or equality added to a Model.
type Constraint struct {
	Expr  LinearExpr
	Sense Sense
	RHS   float64
	Name  string
}

// Model is the backend-agnostic description a formulator builds: the
// variables, the linear constraints over them, and the objective to
// minimize. It carries no knowledge of apps, instance classes, or load
// levels — those live in the formulator that populates it.
type Model struct {
	Vars        []VarBound
	Constraints []Constraint
	Objective   LinearExpr
}

func NewModel() *Model {
	return &Model{Objective: make(LinearExpr)}
}

// AddIntegerVar declares a new non-negative integer variable, optionally
// bounded above, and returns its VarID.
func (m *Model) AddIntegerVar(maxBound int, name string) VarID {
	id := VarID(len(m.Vars))
	m.Vars = append(m.Vars, VarBound{Name: name, MaxBound: maxBound})
	if maxBound > 0 {
		m.AddConstraint(LinearExpr{id: 1}, LE, float64(maxBound), name+"_ub")
	}
	return id
}

// AddConstraint adds a linear constraint to the model.
func (m *Model) AddConstraint(expr LinearExpr, sense Sense, rhs float64, name string) {
	m.Constraints = append(m.Constraints, Constraint{Expr: expr, Sense: sense, RHS: rhs, Name: name})
}

// SetObjective sets (replacing any previous call) the linear expression to
// minimize.
func (m *Model) SetObjective(expr LinearExpr) {
	m.Objective = expr
}

// NumVars reports how many decision variables have been declared.
func (m *Model) NumVars() int { return len(m.Vars) }

// Status is the outcome a Solver reports for a Model, distinct from
// problem.Status: it is a backend-local vocabulary that pkg/solve
// translates into the domain taxonomy.
type Status string

const (
	Optimal           Status = "optimal"
	Infeasible        Status = "infeasible"
	IntegerInfeasible Status = "integer_infeasible"
	Aborted           Status = "aborted"
	SolverError       Status = "error"
)

// Config carries the backend tuning parameters: the MILP optimality
// gap, a wall-clock budget, a thread hint (unused by SimplexBackend, which
// is single-threaded, but preserved for pluggable backends that support
// it), and an optional seed for reproducible tie-breaking.
type Config struct {
	FracGap    float64
	MaxSeconds float64
	Threads    int
	Seed       *int
}

// Result is what a Solver.Solve call returns: the termination status, the
// integer value of every variable (meaningful only when Status is Optimal
// or IntegerInfeasible with a best-effort incumbent), and the objective
// value (nil when no feasible solution was found).
type Result struct {
	Status    Status
	Values    map[VarID]int
	Objective *float64
}

// Value returns the integer value assigned to v, or 0 if the result holds
// no such variable.
func (r Result) Value(v VarID) int {
	return r.Values[v]
}

// ObjectiveValue returns the objective and whether one was computed.
func (r Result) ObjectiveValue() (float64, bool) {
	if r.Objective == nil {
		return 0, false
	}
	return *r.Objective, true
}

// Solver is the abstract MILP backend capability: given a Model
// and a Config, it returns a Result. Implementations wrap CBC, Gurobi,
// HiGHS, or — as here — an in-process simplex-plus-branch-and-bound.
type Solver interface {
	Solve(model *Model, cfg Config) (Result, error)
}
