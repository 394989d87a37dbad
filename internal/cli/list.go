package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded evaluations",
	Long: `List recorded evaluations, newest first, with optional filters.

Examples:
  relevance list                                  # List all evaluations
  relevance list --org "Great Lakes Climate"      # One organization
  relevance list --bucket high --alerted          # High-priority alerts
  relevance list --passed=false --since 7d        # Gated out this week
  relevance list -o json                          # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listOrg     string
	listBucket  string
	listBlocked bool
	listPassed  bool
	listAlerted bool
	listSince   string
	listLimit   int
	listOffset  int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOrg, "org", "", "Filter by organization name or ID")
	listCmd.Flags().StringVar(&listBucket, "bucket", "", "Filter by priority bucket (high, medium, low)")
	listCmd.Flags().BoolVar(&listBlocked, "blocked", false, "Filter by blocked state")
	listCmd.Flags().BoolVar(&listPassed, "passed", false, "Filter by threshold gate result")
	listCmd.Flags().BoolVar(&listAlerted, "alerted", false, "Filter by whether an alert was planned")
	listCmd.Flags().StringVar(&listSince, "since", "", "Filter by time (e.g., 12h, 7d, 2w, 1m)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of results (0 for all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Skip this many results")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	since, err := sinceFlag(listSince)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Build query options
	opts := database.ListOptions{
		Since:  since,
		Limit:  listLimit,
		Offset: listOffset,
	}

	if listOrg != "" {
		o, err := a.resolveOrg(ctx, listOrg)
		if err != nil {
			return err
		}
		opts.OrgID = &o.ID
	}

	if listBucket != "" {
		bucket := relevance.PriorityBucket(listBucket)
		switch bucket {
		case relevance.PriorityHigh, relevance.PriorityMedium, relevance.PriorityLow:
			opts.Bucket = &bucket
		default:
			return fmt.Errorf("invalid bucket: %s (use high, medium or low)", listBucket)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("blocked") {
		opts.Blocked = &listBlocked
	}
	if flags.Changed("passed") {
		opts.Passed = &listPassed
	}
	if flags.Changed("alerted") {
		opts.Alerted = &listAlerted
	}

	evals, err := a.db.ListEvaluations(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	return writeOutput(cmd, evals)
}
