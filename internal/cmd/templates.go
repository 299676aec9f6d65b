package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/cameronsjo/stackform/internal/ui"
)

// templatesCmd represents the templates command.
var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"fragments"},
	Short:   "List fragment templates in the search locations",
	Long: `List the fragment templates found directly under each search location,
in search order. When two locations hold the same name, the first wins.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().AddFlagSet(fragmentFlags())

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	locator := newLocator(afs.New())
	found := locator.Templates(cmd.Context())

	if len(found) == 0 {
		ui.Warning("No templates found")
		ui.Info("Searched:")
		for _, location := range locator.Locations() {
			ui.Item("%s", location)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	for _, location := range locator.Locations() {
		names, ok := found[location]
		if !ok {
			continue
		}
		ui.Bold.Fprintln(out, location)
		for _, name := range names {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}
