package functions

import (
	"fmt"
	"reflect"
)

// Call invokes the function registered under name. Arguments are converted
// to the parameter types: nil becomes the zero value, numbers convert
// between numeric kinds, and []any converts element-wise to typed slices.
// A panic inside the function is returned as an error.
func (r *Registry) Call(name string, args ...any) (result any, err error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, &FunctionNotFoundError{Name: name}
	}

	v := reflect.ValueOf(fn)
	in, err := convertArgs(v.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = fmt.Errorf("%s: %v", name, p)
		}
	}()

	out := v.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, fmt.Errorf("%s: %w", name, out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

func convertArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := t.NumIn()
	if t.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("want at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("want %d arguments, got %d", numIn, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := paramType(t, i)
		v, err := convertArg(arg, want)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}

func convertArg(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(want.Kind()) {
		return v.Convert(want), nil
	}
	if items, ok := arg.([]any); ok && want.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(want, len(items), len(items))
		for i, item := range items {
			elem, err := convertArg(item, want.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			slice.Index(i).Set(elem)
		}
		return slice, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", arg, want)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
