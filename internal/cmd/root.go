// Package cmd provides the CLI commands for stackform.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stackform/internal/config"
	"github.com/cameronsjo/stackform/internal/logging"
	"github.com/cameronsjo/stackform/internal/ui"
)

const version = "0.1.0"

var (
	rootDir  string
	logLevel string

	// projectConfig is loaded before every command runs.
	projectConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stackform",
	Short: "Expand transform placeholders in CloudFormation templates",
	Long: `stackform - composable CloudFormation templates

Resources of type Stack::Transform are placeholders for reusable template
fragments. stackform renders each fragment, prefixes its resources,
mappings, conditions and outputs with the placeholder name, substitutes the
supplied parameters and merges the result into the parent template.

TEMPLATE COMMANDS
  transform <file>      Expand placeholders and apply property transforms
    --output, -o        Write to a file instead of stdout
    --format, -f        Output format (yaml or json)
    --template-path, -t Extra fragment location (repeatable)
    --no-properties     Skip property transforms
  properties <file>     Apply property transforms only
  validate <file>       Check template structure and fragment lookup

DISCOVERY
  functions             List functions available to templates
  templates             List fragments in the search locations

Fragments are searched in --template-path locations, then
STACKFORM_TEMPLATE_PATH, then template_paths from .stackform.yml, then the
templates/ directory of the project root.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", "", "Project root (discovered from the working directory if not set)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides .stackform.yml)")

	rootCmd.SetVersionTemplate("stackform version {{.Version}}\n")
}

// setup loads the project configuration and installs logging for the
// command about to run. Status messages and logs go to the command's error
// stream so documents written to stdout stay clean.
func setup(cmd *cobra.Command, args []string) error {
	ui.SetOutput(cmd.ErrOrStderr())

	var err error
	if rootDir != "" {
		projectConfig, err = config.LoadFrom(rootDir)
	} else {
		projectConfig, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := projectConfig.Level()
	if logLevel != "" {
		level, err = config.ParseLevel(logLevel)
		if err != nil {
			return err
		}
	}
	logging.Setup(cmd.ErrOrStderr(), level)
	return nil
}
