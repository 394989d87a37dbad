package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage an organization's interest topics",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <org> <topic>",
	Short: "Add or update an interest topic",
	Long: `Add an interest topic. A topic that normalizes to the same text as an
existing one replaces its weight and source.

Examples:
  relevance org topic add "Great Lakes Climate" "offshore wind" --weight 0.8
  relevance org topic add "Great Lakes Climate" "Offshore Wind!" --weight 0.9 --source admin_override`,
	Args: cobra.ExactArgs(2),
	RunE: runTopicAdd,
}

var topicListCmd = &cobra.Command{
	Use:   "list <org>",
	Short: "List interest topics, heaviest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicList,
}

var topicRemoveCmd = &cobra.Command{
	Use:   "remove <org> <topic-or-id>",
	Short: "Remove an interest topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicRemove,
}

var topicSeedCmd = &cobra.Command{
	Use:   "seed <org>",
	Short: "Add the default catalog topics for the organization's type",
	Long: `Add the default catalog topics for an organization type. Existing topics
with the same text are reset to the catalog weight.`,
	Args: cobra.ExactArgs(1),
	RunE: runTopicSeed,
}

var (
	topicWeight   float64
	topicSource   string
	topicSeedType string
)

func init() {
	orgCmd.AddCommand(topicCmd)
	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicRemoveCmd)
	topicCmd.AddCommand(topicSeedCmd)

	topicAddCmd.Flags().Float64Var(&topicWeight, "weight", 0.5, "Relative importance from 0 to 1")
	topicAddCmd.Flags().StringVar(&topicSource, "source", string(org.SourceSelfDeclared),
		"Where the topic came from (self_declared, learned_implicit, learned_outcome, admin_override)")
	topicSeedCmd.Flags().StringVar(&topicSeedType, "type", "", "Organization type to seed from (default: the organization's own type)")
}

func runTopicAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	t := &org.InterestTopic{Topic: args[1], Weight: topicWeight, Source: org.TopicSource(topicSource)}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid topic: %w", err)
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

	if err := a.db.UpsertInterestTopic(ctx, o.ID, t); err != nil {
		return fmt.Errorf("failed to save topic: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved topic '%s' (weight %.2f) for '%s'\n", t.Topic, t.Weight, o.Name)
	return nil
}

func runTopicList(cmd *cobra.Command, args []string) error {
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

	topics, err := a.db.ListInterestTopics(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to list topics: %w", err)
	}

	return writeOutput(cmd, topics)
}

func runTopicRemove(cmd *cobra.Command, args []string) error {
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

	t, err := findTopic(ctx, a, o.ID, args[1])
	if err != nil {
		return err
	}

	if err := a.db.DeleteInterestTopic(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to remove topic: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed topic '%s' from '%s'\n", t.Topic, o.Name)
	return nil
}

// findTopic matches a topic by ID or by normalized text
func findTopic(ctx context.Context, a *app, orgID, ref string) (*org.InterestTopic, error) {
	topics, err := a.db.ListInterestTopics(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	key := relevance.Normalize(ref)
	for i := range topics {
		if topics[i].ID == ref || relevance.Normalize(topics[i].Topic) == key {
			return &topics[i], nil
		}
	}
	return nil, fmt.Errorf("topic not found: %s", ref)
}

func runTopicSeed(cmd *cobra.Command, args []string) error {
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

	t := o.Type
	if topicSeedType != "" {
		t = org.OrgType(topicSeedType)
	}
	if !t.Valid() {
		return fmt.Errorf("unknown organization type: %q (use --type)", t)
	}

	topics := org.DefaultTopicsForOrgType(t)
	for i := range topics {
		if err := a.db.UpsertInterestTopic(ctx, o.ID, &topics[i]); err != nil {
			return fmt.Errorf("failed to save topic %q: %w", topics[i].Topic, err)
		}
	}

	a.logger.Info("topics seeded", "org", o.Name, "type", t, "topics", len(topics))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d %s topic(s) for '%s'\n", len(topics), t, o.Name)
	return nil
}
