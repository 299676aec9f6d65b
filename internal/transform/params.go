package transform

import (
	"log/slog"

	"github.com/cameronsjo/stackform/internal/document"
)

// ResolveParameters resolves every parameter the fragment declares to the
// value the placeholder supplies, falling back to the declared Default.
// Supplied values the fragment does not declare are ignored with a warning.
// A nil logger discards the warning.
func ResolveParameters(resource string, declared, supplied map[string]any, logger *slog.Logger) (map[string]any, error) {
	for _, name := range document.SortedKeys(supplied) {
		if _, ok := declared[name]; !ok && logger != nil {
			logger.Warn("ignoring parameter not declared by fragment",
				"transform", resource,
				"parameter", name,
			)
		}
	}

	resolved := make(map[string]any, len(declared))
	for _, name := range document.SortedKeys(declared) {
		if value, ok := supplied[name]; ok && value != nil {
			resolved[name] = value
			continue
		}

		descriptor, _ := declared[name].(map[string]any)
		if value, ok := descriptor["Default"]; ok && value != nil {
			resolved[name] = value
			continue
		}

		return nil, &MissingParameterError{Parameter: name, Resource: resource}
	}
	return resolved, nil
}
