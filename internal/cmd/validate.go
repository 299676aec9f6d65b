package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/cameronsjo/stackform/internal/document"
	"github.com/cameronsjo/stackform/internal/transform"
	"github.com/cameronsjo/stackform/internal/ui"
)

var validateStrict bool

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <template>",
	Short: "Validate template structure and fragment lookup",
	Long: `Validate a template without expanding it.

This command checks:
  1. The template parses and has a Resources mapping
  2. Every resource is a mapping with a Type
  3. Every Stack::Transform placeholder names a fragment that can be found

Unknown top-level sections are warnings unless --strict is given.

Examples:
  stackform validate stack.yml
  stackform validate --strict -t ./shared stack.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().AddFlagSet(fragmentFlags())
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat unknown top-level sections as errors")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	input := args[0]

	doc, err := readTemplate(cmd, input)
	if err != nil {
		return err
	}
	if err := checkTemplate(doc, validateStrict); err != nil {
		return fmt.Errorf("invalid template %s: %w", input, err)
	}

	locator := newLocator(afs.New())
	resources := document.Section(doc, document.SectionResources)

	missing, placeholders := 0, 0
	ui.Header("Transforms in %s", input)
	for _, name := range document.SortedKeys(resources) {
		resource, _ := resources[name].(map[string]any)
		if resource["Type"] != transform.PlaceholderType {
			continue
		}
		placeholders++

		template := transform.FragmentTemplate(resource)
		if template == "" {
			ui.Error("%s: no Template given", name)
			missing++
			continue
		}
		location, err := locator.Locate(cmd.Context(), template)
		if err != nil {
			ui.Error("%s: %v", name, err)
			missing++
			continue
		}
		ui.Item("%s -> %s", name, location)
	}

	if missing > 0 {
		return fmt.Errorf("%d of %d transforms cannot be resolved", missing, placeholders)
	}
	ui.Success("%s is valid (%d resources, %d transforms)", input, len(resources), placeholders)
	return nil
}
