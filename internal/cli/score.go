package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

var scoreCmd = &cobra.Command{
	Use:   "score <org> <entity>",
	Short: "Score one candidate for an organization",
	Long: `Score one candidate against an organization, gate it with the urgency
score and plan its delivery. The evaluation is recorded unless --dry-run is
given or [evaluation] record is false.

Examples:
  relevance score "Great Lakes Climate" "Ohio Wind Farm" --topic "clean energy" --urgency 35
  relevance score "Local 10" "Port Strike" --type event --velocity 240 --dry-run -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

var (
	scoreEntityType string
	scoreTopics     []string
	scoreVelocity   float64
	scoreUrgency    float64
	scoreDryRun     bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreEntityType, "type", "", "Entity type (person, organization, bill, event, ...)")
	scoreCmd.Flags().StringArrayVar(&scoreTopics, "topic", nil, "Candidate topic (repeatable)")
	scoreCmd.Flags().Float64Var(&scoreVelocity, "velocity", 0, "Trend velocity")
	scoreCmd.Flags().Float64Var(&scoreUrgency, "urgency", 0, "Urgency score (0-100)")
	scoreCmd.Flags().BoolVar(&scoreDryRun, "dry-run", false, "Score without recording the evaluation")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	o, err := a.resolveOrg(ctx, args[0])
	if err != nil {
		return err
	}

	in := evaluator.Input{
		Candidate: relevance.Candidate{
			EntityName: args[1],
			EntityType: scoreEntityType,
			Topics:     scoreTopics,
			Velocity:   scoreVelocity,
		},
		Urgency: scoreUrgency,
	}

	ev := evaluator.New(a.db, a.logger)
	outcomes, err := ev.Evaluate(ctx, o.ID, []evaluator.Input{in}, evaluator.Options{
		Workers: 1,
		DryRun:  scoreDryRun || !a.cfg.Evaluation.Record,
	})
	if err != nil {
		return fmt.Errorf("failed to score candidate: %w", err)
	}

	return writeOutput(cmd, &outcomes[0])
}
