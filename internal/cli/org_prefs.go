package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage an organization's alert preferences",
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <org>",
	Short: "Change alert preferences",
	Long: `Change alert preferences. Only the flags given are changed; an
organization without stored preferences starts from the [alerts] config.

Examples:
  relevance org prefs set "Great Lakes Climate" --min-relevance 50 --min-urgency 20
  relevance org prefs set "Great Lakes Climate" --max-per-day 5 --digest daily_digest`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefsSet,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show <org>",
	Short: "Show alert preferences",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsShow,
}

var (
	prefsMinRelevance float64
	prefsMinUrgency   float64
	prefsMaxPerDay    int
	prefsDigest       string
)

func init() {
	orgCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsShowCmd)

	prefsSetCmd.Flags().Float64Var(&prefsMinRelevance, "min-relevance", 0, "Minimum relevance score (0-100)")
	prefsSetCmd.Flags().Float64Var(&prefsMinUrgency, "min-urgency", 0, "Minimum urgency score (0-100)")
	prefsSetCmd.Flags().IntVar(&prefsMaxPerDay, "max-per-day", 0, "Daily alert cap (0 for unlimited)")
	prefsSetCmd.Flags().StringVar(&prefsDigest, "digest", "", "Delivery mode (realtime, hourly_digest, daily_digest)")
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
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

	prefs, err := a.db.GetAlertPreferences(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs == nil {
		seed := a.cfg.Alerts.Preferences()
		prefs = &seed
	}

	flags := cmd.Flags()
	if flags.Changed("min-relevance") {
		prefs.MinRelevanceScore = prefsMinRelevance
	}
	if flags.Changed("min-urgency") {
		prefs.MinUrgencyScore = prefsMinUrgency
	}
	if flags.Changed("max-per-day") {
		prefs.MaxAlertsPerDay = prefsMaxPerDay
	}
	if flags.Changed("digest") {
		prefs.DigestMode = org.DigestMode(prefsDigest)
	}

	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	if err := a.db.SaveAlertPreferences(ctx, o.ID, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	a.logger.Info("alert preferences saved", "org", o.Name,
		"min_relevance", prefs.MinRelevanceScore, "min_urgency", prefs.MinUrgencyScore)
	return writeOutput(cmd, prefs)
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
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

	prefs, err := a.db.GetAlertPreferences(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No alert preferences set for '%s': every score passes the gate.\n", o.Name)
		return nil
	}

	return writeOutput(cmd, prefs)
}
