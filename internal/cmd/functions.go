package cmd

import (
	"fmt"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/stackform/internal/functions"
)

var functionsAll bool

// functionsCmd represents the functions command.
var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List functions available to templates and property transforms",
	Long: `List the registered function names.

The same registry serves fragment templates ({{ SecurityRules .Config.Rules }})
and property transforms ({"Xform::Transform": [SecurityRules, ...]}).
By default only stackform's own functions are listed; --all adds sprig's.`,
	Args: cobra.NoArgs,
	RunE: runFunctions,
}

func init() {
	functionsCmd.Flags().BoolVarP(&functionsAll, "all", "a", false, "Include sprig functions")

	rootCmd.AddCommand(functionsCmd)
}

func runFunctions(cmd *cobra.Command, args []string) error {
	sprigFuncs := sprig.TxtFuncMap()

	var names []string
	for _, name := range functions.Default().Names() {
		if _, fromSprig := sprigFuncs[name]; fromSprig && !functionsAll {
			continue
		}
		names = append(names, name)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	return err
}
