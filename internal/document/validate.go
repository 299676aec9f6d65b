package document

import (
	"errors"
	"fmt"
)

// Validation errors for templates.
var (
	// ErrMissingResources indicates a template without a Resources mapping.
	ErrMissingResources = errors.New("template has no Resources section")

	// ErrInvalidResource indicates a resource that is not a mapping or has no string Type.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrUnknownSection indicates a top-level key outside the recognized sections.
	ErrUnknownSection = errors.New("unknown top-level section")
)

// Validate checks the structural sanity of a template and returns every
// problem found, joined.
func Validate(doc map[string]any) error {
	var errs []error

	for _, key := range SortedKeys(doc) {
		if !IsSection(key) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownSection, key))
		}
	}

	resources, ok := doc[SectionResources].(map[string]any)
	if !ok {
		errs = append(errs, ErrMissingResources)
		return errors.Join(errs...)
	}

	for _, name := range SortedKeys(resources) {
		if err := ValidateResource(name, resources[name]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateResource checks that a resource is a mapping with a string Type.
func ValidateResource(name string, value any) error {
	resource, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %s is not a mapping", ErrInvalidResource, name)
	}

	resourceType, ok := resource["Type"].(string)
	if !ok || resourceType == "" {
		return fmt.Errorf("%w: %s has no Type", ErrInvalidResource, name)
	}

	if props, exists := resource["Properties"]; exists && props != nil {
		if _, ok := props.(map[string]any); !ok {
			return fmt.Errorf("%w: %s Properties is not a mapping", ErrInvalidResource, name)
		}
	}

	return nil
}
