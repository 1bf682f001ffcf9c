package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malloovia/malloovia/internal/logger"
	"github.com/malloovia/malloovia/pkg/aggregate"
	"github.com/malloovia/malloovia/pkg/backend"
	"github.com/malloovia/malloovia/pkg/config"
	"github.com/malloovia/malloovia/pkg/phase"
	"github.com/malloovia/malloovia/pkg/problem"
	"github.com/malloovia/malloovia/pkg/solve"
)

var (
	solvePhaseIID  string
	solvePhaseIIID string
	solveOutput    string
	solveFracGap   float64
	solveMaxSecs   float64
	solveThreads   int
)

var solveCmd = &cobra.Command{
	Use:   "solve PATH",
	Short: "Run Phase I on one problem and, optionally, Phase II on another",
	Long: `Solve runs Phase I over the problem named by --phase-i-id (its long-term
workload prediction becomes the load histogram) and, when --phase-ii-id
names a second problem, replays that problem's workloads through Phase II
against the Phase I reservation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		doc, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		problems, err := config.Build(doc)
		if err != nil {
			return fmt.Errorf("%s is invalid: %w", path, err)
		}

		p1, err := pickProblem(problems, solvePhaseIID, path)
		if err != nil {
			return err
		}

		cfg := backend.Config{FracGap: solveFracGap, MaxSeconds: solveMaxSecs, Threads: solveThreads}
		orchestrator := solve.New(&backend.SimplexBackend{})
		orchestrator.Metrics = newEmitter()

		phaseI := phase.NewPhaseI(orchestrator)
		solI := phaseI.Solve(p1, cfg)
		logger.Log.Infow("phase I solved",
			"problem", p1.ID(),
			"status", solI.Stats.Algorithm.Status,
			"cost", solI.Stats.Cost(),
			"gcd_applied", solI.Stats.Algorithm.GCDApplied)

		solIID := p1.ID() + "-phase-i"
		doc.Solutions = append(doc.Solutions, config.SolutionIDoc(solIID, solI))

		if solvePhaseIIID != "" {
			p2, ok := problems[solvePhaseIIID]
			if !ok {
				return fmt.Errorf("%s defines no problem with id %q", path, solvePhaseIIID)
			}

			phaseII := phase.NewPhaseII(orchestrator)
			predictor := phase.NewWorkloadPredictor(p2)
			results := phaseII.SolvePeriod(p2, solI, predictor, cfg)
			global := aggregate.Global(results)

			logger.Log.Infow("phase II solved",
				"problem", p2.ID(),
				"timeslots", len(results),
				"status", global.Status,
				"cost", global.OptimalCost)

			doc.Solutions = append(doc.Solutions, config.SolutionIIDoc(p2.ID()+"-phase-ii", solIID, results, global))
		}

		if solveOutput == "" {
			fmt.Printf("%s: phase I status=%s cost=%.2f\n", p1.ID(), solI.Stats.Algorithm.Status, solI.Stats.Cost())
			return nil
		}
		if err := config.Save(solveOutput, doc); err != nil {
			return fmt.Errorf("writing %s: %w", solveOutput, err)
		}
		fmt.Printf("wrote %s\n", solveOutput)
		return nil
	},
}

// pickProblem resolves the problem the id flag names, falling back to the
// document's only problem when the flag is empty.
func pickProblem(problems map[string]problem.Problem, id, path string) (problem.Problem, error) {
	if id != "" {
		p, ok := problems[id]
		if !ok {
			return problem.Problem{}, fmt.Errorf("%s defines no problem with id %q", path, id)
		}
		return p, nil
	}
	if len(problems) == 1 {
		for _, p := range problems {
			return p, nil
		}
	}
	return problem.Problem{}, fmt.Errorf("%s defines %d problems; pass --phase-i-id to pick one", path, len(problems))
}

func init() {
	solveCmd.Flags().StringVar(&solvePhaseIID, "phase-i-id", "", "id of the problem to solve in Phase I (optional when the document defines exactly one)")
	solveCmd.Flags().StringVar(&solvePhaseIIID, "phase-ii-id", "", "id of the problem whose workloads Phase II replays; omit to skip Phase II")
	solveCmd.Flags().StringVar(&solveOutput, "output", "", "path to write the solved document to (.yaml or .yaml.gz); prints a summary instead when omitted")
	solveCmd.Flags().Float64Var(&solveFracGap, "frac-gap", 0, "MILP optimality gap accepted by the backend")
	solveCmd.Flags().Float64Var(&solveMaxSecs, "max-seconds", 0, "wall-clock budget per backend solve, 0 for unbounded")
	solveCmd.Flags().IntVar(&solveThreads, "threads", 1, "thread hint passed to the backend")
}
