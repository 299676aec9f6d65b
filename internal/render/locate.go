// Package render locates fragment templates and renders them into
// documents.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/cameronsjo/stackform/internal/document"
)

// TemplateNotFoundError reports a template name missing from every search
// location.
type TemplateNotFoundError struct {
	Name      string
	Locations []string

	// Err is the last failure checking a location, if any.
	Err error
}

func (e *TemplateNotFoundError) Error() string {
	msg := fmt.Sprintf("template %s not found in %s", e.Name, strings.Join(e.Locations, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TemplateNotFoundError) Unwrap() error {
	return e.Err
}

// Locator finds fragment templates across an ordered list of locations.
// A location is a local directory or an afs URL such as mem://host/dir.
type Locator struct {
	fs        afs.Service
	locations []string
}

// NewLocator creates a Locator searching locations in order.
func NewLocator(fs afs.Service, locations ...string) *Locator {
	return &Locator{fs: fs, locations: locations}
}

// Locations returns the search locations in order.
func (l *Locator) Locations() []string {
	return append([]string(nil), l.locations...)
}

// Locate returns the first existing join of a search location and name.
// A location that cannot be checked does not stop the search; its error is
// carried by the TemplateNotFoundError when no location has the name.
func (l *Locator) Locate(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, location := range l.locations {
		candidate := join(location, name)
		exists, err := l.fs.Exists(ctx, candidate)
		if err != nil {
			lastErr = fmt.Errorf("check %s: %w", candidate, err)
			continue
		}
		if exists {
			return candidate, nil
		}
	}
	return "", &TemplateNotFoundError{Name: name, Locations: l.Locations(), Err: lastErr}
}

// Templates lists the template files directly under each location, by
// location. Locations that cannot be listed are skipped.
func (l *Locator) Templates(ctx context.Context) map[string][]string {
	result := make(map[string][]string)
	for _, location := range l.locations {
		objects, err := l.fs.List(ctx, location)
		if err != nil {
			continue
		}
		var names []string
		for _, object := range objects {
			if object.IsDir() || !isTemplate(object.Name()) {
				continue
			}
			names = append(names, object.Name())
		}
		sort.Strings(names)
		if len(names) > 0 {
			result[location] = names
		}
	}
	return result
}

func isTemplate(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml", ".json", ".jsonc", ".template", ".tmpl":
		return true
	default:
		return false
	}
}

func join(location, name string) string {
	if strings.Contains(location, "://") {
		return url.Join(location, name)
	}
	return filepath.Join(location, name)
}

// formatOf picks the decode format from a template name, ignoring a
// trailing .tmpl.
func formatOf(location string) document.Format {
	return document.FormatFromPath(strings.TrimSuffix(location, ".tmpl"))
}
