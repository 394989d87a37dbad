package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/relevance"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage an organization's entity allow and deny rules",
}

var ruleAddCmd = &cobra.Command{
	Use:   "add <org> <entity>",
	Short: "Add an entity rule",
	Long: `Add an entity rule. Deny rules block matching candidates outright; allow
rules add a bonus to matching candidates.

Examples:
  relevance org rule add "Great Lakes Climate" "Acme Coal" --type deny --reason "polluter"
  relevance org rule add "Great Lakes Climate" "Sierra Club" --type allow`,
	Args: cobra.ExactArgs(2),
	RunE: runRuleAdd,
}

var ruleListCmd = &cobra.Command{
	Use:   "list <org>",
	Short: "List entity rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runRuleList,
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove <org> <entity-or-id>",
	Short: "Remove an entity rule",
	Args:  cobra.ExactArgs(2),
	RunE:  runRuleRemove,
}

var (
	ruleType   string
	ruleReason string
)

func init() {
	orgCmd.AddCommand(ruleCmd)
	ruleCmd.AddCommand(ruleAddCmd)
	ruleCmd.AddCommand(ruleListCmd)
	ruleCmd.AddCommand(ruleRemoveCmd)

	ruleAddCmd.Flags().StringVar(&ruleType, "type", string(org.RuleDeny), "Rule type (allow, deny)")
	ruleAddCmd.Flags().StringVar(&ruleReason, "reason", "", "Why the rule exists")
}

func runRuleAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	r := &org.EntityRule{EntityName: args[1], RuleType: org.RuleType(ruleType), Reason: ruleReason}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
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

	if err := a.db.CreateEntityRule(ctx, o.ID, r); err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s rule for '%s' to '%s'\n", r.RuleType, r.EntityName, o.Name)
	return nil
}

func runRuleList(cmd *cobra.Command, args []string) error {
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

	rules, err := a.db.ListEntityRules(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	return writeOutput(cmd, rules)
}

func runRuleRemove(cmd *cobra.Command, args []string) error {
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

	rules, err := a.db.ListEntityRules(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}

	// Entity names compare exactly after normalization; IDs compare verbatim
	key := relevance.Normalize(args[1])
	removed := 0
	for _, r := range rules {
		if r.ID != args[1] && relevance.Normalize(r.EntityName) != key {
			continue
		}
		if err := a.db.DeleteEntityRule(ctx, r.ID); err != nil {
			return fmt.Errorf("failed to remove rule: %w", err)
		}
		removed++
	}

	if removed == 0 {
		return fmt.Errorf("rule not found: %s", args[1])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d rule(s) from '%s'\n", removed, o.Name)
	return nil
}
