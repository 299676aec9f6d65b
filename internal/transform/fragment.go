package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/cameronsjo/stackform/internal/document"
)

// fragment is one placeholder and the template rendered for it.
type fragment struct {
	// name is the placeholder's logical ID and the rename prefix.
	name string

	// body is the rendered fragment, renamed and substituted in place by
	// the prepare stage.
	body map[string]any

	// outputs are the fragment's output keys before renaming.
	outputs []string

	// targets are the renamed resources inheriting the placeholder's
	// dependencies and references.
	targets []string
}

func (f *fragment) renamed(key string) string {
	return f.name + key
}

// discover finds the placeholders in the working document, in sorted order,
// and renders a fragment for each.
func (r *run) discover(ctx context.Context) ([]*fragment, error) {
	resources := document.Section(r.doc, document.SectionResources)

	var fragments []*fragment
	for _, name := range document.SortedKeys(resources) {
		resource, ok := resources[name].(map[string]any)
		if !ok || resource["Type"] != PlaceholderType {
			continue
		}

		if strategy := placeholderStrategy(resource); strategy != StrategyMerge {
			return nil, &UnsupportedStrategyError{Resource: name, Strategy: strategy}
		}

		body, err := r.load(ctx, name, resource)
		if err != nil {
			return nil, err
		}

		outputs := document.SortedKeys(document.Section(body, document.SectionOutputs))
		fragments = append(fragments, &fragment{name: name, body: body, outputs: outputs})
		r.logger.Debug("loaded fragment", "transform", name, "outputs", len(outputs))
	}
	return fragments, nil
}

func (r *run) load(ctx context.Context, name string, resource map[string]any) (map[string]any, error) {
	template := FragmentTemplate(resource)
	if template == "" {
		return nil, fmt.Errorf("transform %s: no Template given", name)
	}

	location, err := r.engine.locator.Locate(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", name, err)
	}

	data := map[string]any{
		"Name":       name,
		"Config":     document.DeepCopy(resource),
		"Parameters": document.DeepCopy(suppliedParameters(resource)),
	}
	body, err := r.engine.renderer.Render(ctx, location, data)
	if err != nil {
		return nil, fmt.Errorf("transform %s: render %s: %w", name, template, err)
	}
	if body == nil {
		body = make(map[string]any)
	}
	return body, nil
}

// FragmentTemplate returns the fragment a placeholder names: Template on the
// resource, then Template in its Properties.
func FragmentTemplate(resource map[string]any) string {
	if s, ok := resource["Template"].(string); ok && s != "" {
		return s
	}
	props, _ := resource["Properties"].(map[string]any)
	s, _ := props["Template"].(string)
	return s
}

// placeholderStrategy reads Strategy from the resource, then from its
// Metadata, defaulting to merge.
func placeholderStrategy(resource map[string]any) string {
	strategy, _ := resource["Strategy"].(string)
	if strategy == "" {
		metadata, _ := resource["Metadata"].(map[string]any)
		strategy, _ = metadata["Strategy"].(string)
	}
	if strategy == "" {
		return StrategyMerge
	}
	return strings.ToLower(strategy)
}

// suppliedParameters returns Properties.Parameters, or nil when the
// placeholder supplies none.
func suppliedParameters(resource map[string]any) map[string]any {
	props, _ := resource["Properties"].(map[string]any)
	params, _ := props["Parameters"].(map[string]any)
	return params
}

// dependencyTargets reads Metadata.DependencyMapping.Default from the
// fragment body.
func dependencyTargets(body map[string]any) []string {
	metadata := document.Section(body, document.SectionMetadata)
	mapping, _ := metadata["DependencyMapping"].(map[string]any)
	return document.StringList(mapping["Default"])
}
