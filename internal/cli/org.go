package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/output"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organizations",
	Long: `Manage organizations and the inputs used to score candidates for them:
profile, interest topics, entity rules and alert preferences.

Organizations can be referenced by ID or by name (case-insensitive).`,
}

var orgCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an organization",
	Long: `Create an organization. Interest topics are seeded from the default
catalog for its type and alert preferences from the [alerts] config section.

Examples:
  relevance org create "Great Lakes Climate" --type climate --geo Ohio --geo Michigan
  relevance org create "Local 10" --type labor --focus "port workers" --no-seed`,
	Args: cobra.ExactArgs(1),
	RunE: runOrgCreate,
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	Args:  cobra.NoArgs,
	RunE:  runOrgList,
}

var orgShowCmd = &cobra.Command{
	Use:   "show <org>",
	Short: "Show an organization with its topics, rules and preferences",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgShow,
}

var orgImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an organization from a JSON or YAML file",
	Long: `Import an organization, its interest topics, entity rules and alert
preferences from one JSON or YAML document.

Example document (YAML):
  name: Great Lakes Climate
  type: climate
  geographies: [Ohio, Michigan]
  interest_topics:
    - topic: wind power
      weight: 0.8
  entity_rules:
    - entity_name: Acme Coal
      rule_type: deny
      reason: polluter
  alert_preferences:
    min_relevance_score: 50
    max_alerts_per_day: 5
    digest_mode: daily_digest
  seed_defaults: true`,
	Args: cobra.ExactArgs(1),
	RunE: runOrgImport,
}

var orgDeleteCmd = &cobra.Command{
	Use:   "delete <org>",
	Short: "Delete an organization and everything recorded for it",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgDelete,
}

var (
	orgType         string
	orgMission      string
	orgFocusAreas   []string
	orgKeyIssues    []string
	orgGeographies  []string
	orgPrimaryGoals []string
	orgNoSeed       bool
)

func init() {
	rootCmd.AddCommand(orgCmd)
	orgCmd.AddCommand(orgCreateCmd)
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgShowCmd)
	orgCmd.AddCommand(orgImportCmd)
	orgCmd.AddCommand(orgDeleteCmd)

	orgCreateCmd.Flags().StringVar(&orgType, "type", "", "Organization type (foreign_policy, human_rights, candidate, labor, climate, civil_rights)")
	orgCreateCmd.Flags().StringVar(&orgMission, "mission", "", "Mission statement")
	orgCreateCmd.Flags().StringArrayVar(&orgFocusAreas, "focus", nil, "Focus area (repeatable)")
	orgCreateCmd.Flags().StringArrayVar(&orgKeyIssues, "issue", nil, "Key issue (repeatable)")
	orgCreateCmd.Flags().StringArrayVar(&orgGeographies, "geo", nil, "Geography of interest (repeatable)")
	orgCreateCmd.Flags().StringArrayVar(&orgPrimaryGoals, "goal", nil, "Primary goal (repeatable)")
	orgCreateCmd.Flags().BoolVar(&orgNoSeed, "no-seed", false, "Do not seed interest topics from the default catalog")
}

func runOrgCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	o := &database.Organization{Profile: org.Profile{
		Name:         args[0],
		Type:         org.OrgType(orgType),
		Mission:      orgMission,
		FocusAreas:   orgFocusAreas,
		KeyIssues:    orgKeyIssues,
		Geographies:  orgGeographies,
		PrimaryGoals: orgPrimaryGoals,
	}}
	if err := o.Profile.Validate(); err != nil {
		return fmt.Errorf("invalid organization: %w", err)
	}

	var topics []org.InterestTopic
	if !orgNoSeed {
		topics = org.DefaultTopicsForOrgType(o.Type)
	}
	prefs := a.cfg.Alerts.Preferences()

	if err := a.db.SeedOrganization(ctx, o, &prefs, topics, nil); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	a.logger.Info("organization created", "org", o.Name, "id", o.ID, "topics", len(topics))
	if outputFmt != "table" && outputFmt != "" {
		return writeOutput(cmd, o)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created organization '%s' (%s) with %d interest topic(s)\n", o.Name, o.ID, len(topics))
	return nil
}

func runOrgList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	orgs, err := a.db.ListOrganizations(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	return writeOutput(cmd, orgs)
}

// orgDetail is the full stored state of one organization
type orgDetail struct {
	Organization *database.Organization `json:"organization"`
	Topics       []org.InterestTopic    `json:"interest_topics"`
	Rules        []org.EntityRule       `json:"entity_rules"`
	Preferences  *org.AlertPreferences  `json:"alert_preferences"`
}

func runOrgShow(cmd *cobra.Command, args []string) error {
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

	sc, err := a.db.LoadScoringContext(ctx, o.ID)
	if err != nil {
		return err
	}

	detail := orgDetail{
		Organization: o,
		Topics:       sc.Topics,
		Rules:        sc.Rules,
		Preferences:  sc.Preferences,
	}
	if outputFmt != "table" && outputFmt != "" {
		return writeOutput(cmd, detail)
	}

	w := cmd.OutOrStdout()
	if err := output.TableTo(w, o); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nInterest topics:")
	if err := output.TableTo(w, sc.Topics); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nEntity rules:")
	if err := output.TableTo(w, sc.Rules); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nAlert preferences:")
	if sc.Preferences == nil {
		fmt.Fprintln(w, "Not set: every score passes the gate.")
		return nil
	}
	return output.TableTo(w, sc.Preferences)
}

func runOrgImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := loadOrgDocument(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	topics := doc.InterestTopics
	if doc.SeedDefaults {
		// Explicit topics win over catalog entries with the same key
		topics = append(org.DefaultTopicsForOrgType(doc.Type), topics...)
	}

	prefs := doc.AlertPreferences
	if prefs == nil {
		seed := a.cfg.Alerts.Preferences()
		prefs = &seed
	}

	o := &database.Organization{Profile: doc.Profile}
	if err := a.db.SeedOrganization(ctx, o, prefs, topics, doc.EntityRules); err != nil {
		return fmt.Errorf("failed to import organization: %w", err)
	}

	a.logger.Info("organization imported", "org", o.Name, "id", o.ID,
		"topics", len(topics), "rules", len(doc.EntityRules))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported organization '%s' (%s): %d topic(s), %d rule(s)\n",
		o.Name, o.ID, len(topics), len(doc.EntityRules))
	return nil
}

func runOrgDelete(cmd *cobra.Command, args []string) error {
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

	if err := a.db.DeleteOrganization(ctx, o.ID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	a.logger.Info("organization deleted", "org", o.Name, "id", o.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted organization '%s'\n", o.Name)
	return nil
}
