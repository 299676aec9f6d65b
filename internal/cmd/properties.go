package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stackform/internal/document"
	"github.com/cameronsjo/stackform/internal/functions"
	"github.com/cameronsjo/stackform/internal/transform"
)

// propertiesCmd represents the properties command.
var propertiesCmd = &cobra.Command{
	Use:   "properties <template>",
	Short: "Apply property transforms without expanding placeholders",
	Long: `Replace each resource property of the form

  {"Xform::Transform": [function, argument]}

with the result of calling the named function on the argument. Only direct
values of a resource's Properties are considered. Run 'stackform functions'
for the available names.`,
	Args: cobra.ExactArgs(1),
	RunE: runProperties,
}

func init() {
	propertiesCmd.Flags().AddFlagSet(outputFlags())

	rootCmd.AddCommand(propertiesCmd)
}

func runProperties(cmd *cobra.Command, args []string) error {
	input := args[0]

	doc, err := readTemplate(cmd, input)
	if err != nil {
		return err
	}

	result, err := transform.ApplyPropertyTransforms(doc, functions.Default())
	if err != nil {
		return fmt.Errorf("property transform: %w", err)
	}

	return writeDocument(cmd, document.Assemble(result), input)
}
