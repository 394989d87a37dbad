package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/config"
	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/logging"
	"github.com/hussienjaafar/mojo-digital-wins/internal/output"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	logLevel   string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "relevance",
	Short: "Personalized relevance scoring and alert gating for organizations",
	Long: `relevance scores news entities, topics and opportunities against an
organization's profile, interest topics and entity rules, then decides
whether the result clears the organization's alert thresholds.

It provides:
  - Organization profiles with a default topic catalog per org type
  - Allow and deny rules for named entities
  - Threshold gating with daily caps and digest delivery
  - Feedback-driven learning of topic weights
  - MCP server for AI assistant integration`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: $"+config.EnvConfigPath+" or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides the config file")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	configPath = config.ResolvePath(configPath)
}

// app bundles what most commands need
type app struct {
	cfg    *config.Config
	db     *database.DB
	logger *log.Logger
}

// openApp loads the configuration and opens the database
func openApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.New(nil, level)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Debug("database opened", "path", cfg.Database.Path)
	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// resolveOrg finds an organization by ID or case-insensitive name
func (a *app) resolveOrg(ctx context.Context, ref string) (*database.Organization, error) {
	o, err := a.db.ResolveOrganization(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("organization not found: %s", ref)
	}
	return o, nil
}

// writeOutput renders data in the format chosen with --output
func writeOutput(cmd *cobra.Command, data interface{}) error {
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, data)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "relevance %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", buildTime)
	},
}
