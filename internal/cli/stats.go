package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show evaluation statistics",
	Long: `Display aggregate statistics about recorded evaluations: bucket counts,
blocked candidates, gate pass rate, planned alerts and feedback.

Examples:
  relevance stats                                 # All organizations
  relevance stats --org "Great Lakes Climate"     # One organization
  relevance stats --since=7d                      # Last 7 days`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsOrg   string
	statsSince string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsOrg, "org", "", "Organization name or ID")
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 12h, 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	since, err := sinceFlag(statsSince)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts := database.ListOptions{Since: since}
	if statsOrg != "" {
		o, err := a.resolveOrg(ctx, statsOrg)
		if err != nil {
			return err
		}
		opts.OrgID = &o.ID
	}

	stats, err := a.db.GetStats(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	return writeOutput(cmd, stats)
}
