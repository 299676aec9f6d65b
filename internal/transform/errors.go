package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrNestingTooDeep is returned when fragments keep producing new
	// placeholders past the engine's depth limit.
	ErrNestingTooDeep = errors.New("transform nesting too deep")

	// ErrInvalidPropertyTransform is returned for a property transform whose
	// payload is not [functionName, argument].
	ErrInvalidPropertyTransform = errors.New("invalid property transform")
)

// MissingParameterError reports a fragment parameter with neither a supplied
// value nor a default.
type MissingParameterError struct {
	Parameter string
	Resource  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("parameter %s of transform %s has no supplied value and no default", e.Parameter, e.Resource)
}

// NameCollisionError reports a renamed fragment entry that already exists in
// the parent document.
type NameCollisionError struct {
	Section  string
	Key      string
	Fragment string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%s %s from transform %s already exists in the template", e.Section, e.Key, e.Fragment)
}

// UnsupportedStrategyError reports a placeholder whose strategy the engine
// does not implement.
type UnsupportedStrategyError struct {
	Resource string
	Strategy string
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("transform %s: strategy %q is not supported", e.Resource, e.Strategy)
}
