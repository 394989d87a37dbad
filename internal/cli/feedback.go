package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/learning"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record feedback on evaluations",
	Long: `Record whether an evaluation was useful to the organization.

Feedback adjusts the weights of learned interest topics that the candidate
matched. Useful feedback also adds the candidate's unmatched topics as new
learned topics. Self-declared and admin topics are never changed.`,
}

var feedbackUsefulCmd = &cobra.Command{
	Use:   "useful <evaluation-id>",
	Short: "Mark an evaluation as useful",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeedback(cmd, args[0], true)
	},
}

var feedbackNotUsefulCmd = &cobra.Command{
	Use:   "not-useful <evaluation-id>",
	Short: "Mark an evaluation as not useful",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFeedback(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackUsefulCmd)
	feedbackCmd.AddCommand(feedbackNotUsefulCmd)
}

func runFeedback(cmd *cobra.Command, evaluationID string, useful bool) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := learning.New(a.db, a.logger).RecordFeedback(cmd.Context(), evaluationID, useful)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	return writeOutput(cmd, summary)
}
