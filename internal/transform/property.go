package transform

import (
	"fmt"

	"github.com/cameronsjo/stackform/internal/document"
)

// PropertyTransformKey marks a property value to be replaced by a function
// result. Its payload is [functionName, argument].
const PropertyTransformKey = "Xform::Transform"

// ApplyPropertyTransforms replaces each marked resource property with the
// result of calling the named function on the argument. Only direct property
// values are considered. doc itself is never modified.
func ApplyPropertyTransforms(doc map[string]any, invoker Invoker) (map[string]any, error) {
	result := document.Clone(doc)

	resources := document.Section(result, document.SectionResources)
	for _, resourceName := range document.SortedKeys(resources) {
		resource, ok := resources[resourceName].(map[string]any)
		if !ok {
			continue
		}
		props, ok := resource["Properties"].(map[string]any)
		if !ok {
			continue
		}

		for _, propName := range document.SortedKeys(props) {
			value, ok := props[propName].(map[string]any)
			if !ok {
				continue
			}
			payload, ok := value[PropertyTransformKey]
			if !ok {
				continue
			}

			fn, arg, err := parsePropertyTransform(payload)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", resourceName, propName, err)
			}
			out, err := invoker.Call(fn, arg)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", resourceName, propName, err)
			}
			props[propName] = out
		}
	}

	return result, nil
}

func parsePropertyTransform(payload any) (string, any, error) {
	args, ok := payload.([]any)
	if !ok || len(args) != 2 {
		return "", nil, fmt.Errorf("%w: want [function, argument]", ErrInvalidPropertyTransform)
	}
	fn, ok := args[0].(string)
	if !ok || fn == "" {
		return "", nil, fmt.Errorf("%w: function name must be a string", ErrInvalidPropertyTransform)
	}
	return fn, args[1], nil
}
