package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

var gateCmd = &cobra.Command{
	Use:   "gate <relevance-score> <urgency-score>",
	Short: "Check a score pair against alert thresholds",
	Long: `Check a relevance and urgency score pair against an organization's
alert preferences (--org) or explicit minimums. Without either, every
pair passes.

Examples:
  relevance gate 55 10 --org "Great Lakes Climate"
  relevance gate 55 10 --min-relevance 40 --min-urgency 20`,
	Args: cobra.ExactArgs(2),
	RunE: runGate,
}

var (
	gateOrg          string
	gateMinRelevance float64
	gateMinUrgency   float64
)

func init() {
	rootCmd.AddCommand(gateCmd)

	gateCmd.Flags().StringVar(&gateOrg, "org", "", "Organization whose preferences apply")
	gateCmd.Flags().Float64Var(&gateMinRelevance, "min-relevance", 0, "Minimum relevance score")
	gateCmd.Flags().Float64Var(&gateMinUrgency, "min-urgency", 0, "Minimum urgency score")
}

func runGate(cmd *cobra.Command, args []string) error {
	relevanceScore, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid relevance score %q: %w", args[0], err)
	}
	urgencyScore, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid urgency score %q: %w", args[1], err)
	}

	var prefs *org.AlertPreferences
	flags := cmd.Flags()

	switch {
	case gateOrg != "":
		ctx := cmd.Context()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.resolveOrg(ctx, gateOrg)
		if err != nil {
			return err
		}
		prefs, err = a.db.GetAlertPreferences(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
	case flags.Changed("min-relevance") || flags.Changed("min-urgency"):
		prefs = &org.AlertPreferences{
			MinRelevanceScore: gateMinRelevance,
			MinUrgencyScore:   gateMinUrgency,
			DigestMode:        org.DigestRealtime,
		}
	}

	return writeOutput(cmd, relevance.PassesThresholds(relevanceScore, urgencyScore, prefs))
}
