package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
	"github.com/hussienjaafar/mojo-digital-wins/internal/output"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [org-type]",
	Short: "Show the default interest topics per organization type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		t := org.OrgType(args[0])
		if !t.Valid() {
			return fmt.Errorf("unknown organization type: %q", args[0])
		}
		return writeOutput(cmd, org.DefaultTopicsForOrgType(t))
	}

	if outputFmt != "table" && outputFmt != "" {
		catalog := make(map[org.OrgType][]org.InterestTopic, len(org.AllOrgTypes()))
		for _, t := range org.AllOrgTypes() {
			catalog[t] = org.DefaultTopicsForOrgType(t)
		}
		return writeOutput(cmd, catalog)
	}

	w := cmd.OutOrStdout()
	for i, t := range org.AllOrgTypes() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", t)
		if err := output.TableTo(w, org.DefaultTopicsForOrgType(t)); err != nil {
			return err
		}
	}
	return nil
}
