package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stackform/internal/functions"
	"github.com/cameronsjo/stackform/internal/transform"
)

var transformNoProperties bool

// transformCmd represents the transform command.
var transformCmd = &cobra.Command{
	Use:   "transform <template>",
	Short: "Expand transform placeholders in a template",
	Long: `Expand every Stack::Transform placeholder in a template.

Each placeholder names a fragment template, found in the search locations
and rendered with Go templates and sprig. The fragment's entries are
prefixed with the placeholder name, its parameters are replaced by the
values the placeholder supplies and the result is merged into the parent.
Fragments may contain placeholders of their own.

Property transforms ({"Xform::Transform": [function, argument]}) are
applied afterwards unless --no-properties is given.

Examples:
  # Expand to stdout
  stackform transform stack.yml

  # Search an extra fragment directory and write JSON to a file
  stackform transform -t ./shared -f json -o build/stack.json stack.yml

  # Read the template from stdin
  cat stack.yml | stackform transform -`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().AddFlagSet(fragmentFlags())
	transformCmd.Flags().AddFlagSet(outputFlags())
	transformCmd.Flags().BoolVar(&transformNoProperties, "no-properties", false, "Skip property transforms")

	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	input := args[0]

	doc, err := readTemplate(cmd, input)
	if err != nil {
		return err
	}
	if err := checkTemplate(doc, false); err != nil {
		return fmt.Errorf("invalid template %s: %w", input, err)
	}

	registry := functions.Default()
	result, err := newEngine(registry).Transform(cmd.Context(), doc)
	if err != nil {
		return err
	}

	if !transformNoProperties {
		result, err = transform.ApplyPropertyTransforms(result, registry)
		if err != nil {
			return fmt.Errorf("property transform: %w", err)
		}
	}

	return writeDocument(cmd, result, input)
}
