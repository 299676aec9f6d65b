// Package functions holds the named functions available to fragment
// templates and property transforms.
package functions

import (
	"fmt"
	"reflect"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// FunctionNotFoundError reports a call to a name that is not registered.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %q is not registered", e.Name)
}

// Registry maps names to Go functions. Functions return one value, or a
// value and an error, the same shapes text/template accepts.
type Registry struct {
	funcs map[string]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]any)}
}

// Default returns a Registry with every sprig function plus the built-in
// template filters.
func Default() *Registry {
	r := New()
	for name, fn := range sprig.TxtFuncMap() {
		r.funcs[name] = fn
	}
	for name, fn := range builtins() {
		r.MustRegister(name, fn)
	}
	return r
}

// Register adds fn under name, replacing any previous entry.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("function name is empty")
	}
	if err := checkSignature(fn); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is like Register but panics on an invalid function.
func (r *Registry) MustRegister(name string, fn any) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FuncMap returns the registry as a text/template function map.
func (r *Registry) FuncMap() template.FuncMap {
	m := make(template.FuncMap, len(r.funcs))
	for name, fn := range r.funcs {
		m[name] = fn
	}
	return m
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func checkSignature(fn any) error {
	if fn == nil {
		return fmt.Errorf("function is nil")
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%T is not a function", fn)
	}
	switch {
	case t.NumOut() == 1:
		return nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return nil
	default:
		return fmt.Errorf("function must return one value, or a value and an error")
	}
}
