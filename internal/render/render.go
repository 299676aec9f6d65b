package render

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/viant/afs"

	"github.com/cameronsjo/stackform/internal/document"
	"github.com/cameronsjo/stackform/internal/functions"
)

// Renderer executes fragment templates and parses the output.
type Renderer struct {
	fs    afs.Service
	funcs *functions.Registry
}

// NewRenderer creates a Renderer exposing funcs to templates.
func NewRenderer(fs afs.Service, funcs *functions.Registry) *Renderer {
	return &Renderer{fs: fs, funcs: funcs}
}

// Render downloads the template at location, executes it with data and
// decodes the result. The decode format follows the file extension.
func (r *Renderer) Render(ctx context.Context, location string, data map[string]any) (map[string]any, error) {
	content, err := r.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}

	rendered, err := r.Execute(path.Base(location), content, data)
	if err != nil {
		return nil, err
	}

	doc, err := document.Decode(rendered, formatOf(location))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return doc, nil
}

// Execute runs content as a text/template with sprig and the registry's
// functions. Missing keys render as zero values.
func (r *Renderer) Execute(name string, content []byte, data map[string]any) ([]byte, error) {
	tmpl := template.New(name).
		Option("missingkey=zero").
		Funcs(sprig.TxtFuncMap())
	if r.funcs != nil {
		tmpl = tmpl.Funcs(r.funcs.FuncMap())
	}

	tmpl, err := tmpl.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render error: %w", err)
	}
	return buf.Bytes(), nil
}
