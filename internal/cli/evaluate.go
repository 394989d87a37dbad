package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <org> <file>",
	Short: "Score a batch of candidates from a JSON or YAML file",
	Long: `Score every candidate in a file for one organization. The file holds a
list of {candidate, urgency} entries:

  - candidate:
      entityName: Ohio Wind Farm
      entityType: project
      topics: [clean energy, wind power]
      velocity: 120
    urgency: 35

Scoring runs on --workers goroutines; gating and the daily alert cap are
applied in file order.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvaluate,
}

var (
	evaluateWorkers int
	evaluateDryRun  bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().IntVar(&evaluateWorkers, "workers", 0, "Scoring goroutines (default: [evaluation] workers)")
	evaluateCmd.Flags().BoolVar(&evaluateDryRun, "dry-run", false, "Score without recording evaluations")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	inputs, err := loadInputs(args[1])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	o, err := a.resolveOrg(ctx, args[0])
	if err != nil {
		return err
	}

	workers := evaluateWorkers
	if workers <= 0 {
		workers = a.cfg.Evaluation.Workers
	}

	ev := evaluator.New(a.db, a.logger)
	outcomes, err := ev.Evaluate(ctx, o.ID, inputs, evaluator.Options{
		Workers: workers,
		DryRun:  evaluateDryRun || !a.cfg.Evaluation.Record,
	})
	if err != nil {
		return fmt.Errorf("evaluation failed after %d of %d candidate(s): %w", len(outcomes), len(inputs), err)
	}

	return writeOutput(cmd, outcomes)
}
