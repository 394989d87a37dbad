package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE:  runConfigShow,
}

var configInitForce bool

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(expandHome(configPath)); err == nil && !configInitForce {
		fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
		fmt.Fprintln(out, "Use 'relevance config show' to view current configuration")
		return nil
	}

	cfg := config.Default()
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created config file at %s\n", configPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Create an organization:  relevance org create \"My Org\" --type climate")
	fmt.Fprintln(out, "  2. Score a candidate:       relevance score \"My Org\" \"Ohio Wind Farm\" --topic \"clean energy\"")
	fmt.Fprintln(out, "  3. Review alert thresholds: relevance org prefs show \"My Org\"")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch outputFmt {
	case "table", "":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintf(out, "# Config file: %s\n\n", configPath)
		fmt.Fprint(out, string(data))
		return nil
	default:
		return writeOutput(cmd, cfg)
	}
}

// expandHome mirrors the config loader's ~ handling for existence checks
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
