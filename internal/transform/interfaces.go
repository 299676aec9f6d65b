package transform

import "context"

// Locator resolves a fragment template name to a loadable location.
type Locator interface {
	Locate(ctx context.Context, name string) (string, error)
}

// Renderer renders the fragment at location with data and parses the result.
type Renderer interface {
	Render(ctx context.Context, location string, data map[string]any) (map[string]any, error)
}

// Invoker calls a registered function by name.
type Invoker interface {
	Call(name string, args ...any) (any, error)
}
