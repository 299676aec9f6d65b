package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/viant/afs"

	"github.com/cameronsjo/stackform/internal/document"
	"github.com/cameronsjo/stackform/internal/fileutil"
	"github.com/cameronsjo/stackform/internal/functions"
	"github.com/cameronsjo/stackform/internal/lock"
	"github.com/cameronsjo/stackform/internal/render"
	"github.com/cameronsjo/stackform/internal/transform"
	"github.com/cameronsjo/stackform/internal/ui"
)

// Flags shared by the commands that read fragments or write documents.
var (
	templatePaths []string
	maxDepth      int
	outputPath    string
	outputFormat  string
)

// fragmentFlags returns the flags controlling fragment lookup.
func fragmentFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fragments", pflag.ContinueOnError)
	fs.StringArrayVarP(&templatePaths, "template-path", "t", nil, "Fragment location searched before the configured ones (repeatable)")
	fs.IntVar(&maxDepth, "max-depth", transform.DefaultMaxDepth, "Maximum rounds of nested placeholders")
	return fs
}

// outputFlags returns the flags controlling where and how a document is written.
func outputFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("output", pflag.ContinueOnError)
	fs.StringVarP(&outputPath, "output", "o", "", "Output file (prints to stdout if not set)")
	fs.StringVarP(&outputFormat, "format", "f", "", "Output format: yaml or json (defaults to config, then the input extension)")
	return fs
}

// newLocator returns a locator over the configured search paths, with
// --template-path entries first.
func newLocator(fs afs.Service) *render.Locator {
	return render.NewLocator(fs, projectConfig.SearchPaths(templatePaths...)...)
}

// newEngine builds a transform engine rendering fragments with registry.
func newEngine(registry *functions.Registry) *transform.Engine {
	fs := afs.New()
	return transform.New(
		newLocator(fs),
		render.NewRenderer(fs, registry),
		transform.WithLogger(slog.Default()),
		transform.WithMaxDepth(maxDepth),
	)
}

// readTemplate decodes the template at path, or standard input for "-".
func readTemplate(cmd *cobra.Command, path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	doc, err := document.Decode(data, document.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// checkTemplate validates doc. Unless strict, unknown top-level sections
// are reported as warnings; they are dropped from the output anyway.
func checkTemplate(doc map[string]any, strict bool) error {
	err := document.Validate(doc)
	if err == nil || strict {
		return err
	}

	var problems []error
	for _, e := range unwrapAll(err) {
		if errors.Is(e, document.ErrUnknownSection) {
			ui.Warning("%v", e)
			continue
		}
		problems = append(problems, e)
	}
	return errors.Join(problems...)
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// resolveFormat picks the output format: --format, then the configured
// format, then the input file's extension.
func resolveFormat(input string) (document.Format, error) {
	if outputFormat != "" {
		return document.ParseFormat(outputFormat)
	}
	if projectConfig.Format != "" {
		return projectConfig.OutputFormat(), nil
	}
	return document.FormatFromPath(input), nil
}

// writeDocument encodes doc to --output, or to the command's stdout.
func writeDocument(cmd *cobra.Command, doc map[string]any, input string) error {
	format, err := resolveFormat(input)
	if err != nil {
		return err
	}

	data, err := document.Encode(doc, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	err = lock.WithLock(outputPath, func() error {
		return fileutil.WriteFileAtomic(outputPath, data, 0644)
	})
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	ui.Success("Wrote %s", outputPath)
	return nil
}
