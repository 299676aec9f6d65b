package document

import "strings"

// Kind identifies a directive key.
type Kind int

// Recognized directive kinds. KindOpaque covers every other key.
const (
	KindOpaque Kind = iota
	KindRef
	KindGetAtt
	KindFindInMap
	KindIf
	KindSub
	KindCondition
	KindDependsOn
	KindImportValue
	KindJoin
	KindSelect
)

var kindKeys = map[Kind]string{
	KindRef:         "Ref",
	KindGetAtt:      "Fn::GetAtt",
	KindFindInMap:   "Fn::FindInMap",
	KindIf:          "Fn::If",
	KindSub:         "Fn::Sub",
	KindCondition:   "Condition",
	KindDependsOn:   "DependsOn",
	KindImportValue: "Fn::ImportValue",
	KindJoin:        "Fn::Join",
	KindSelect:      "Fn::Select",
}

var keyKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindKeys))
	for kind, key := range kindKeys {
		m[key] = kind
	}
	return m
}()

// Key returns the mapping key for the kind, or "" for KindOpaque.
func (k Kind) Key() string {
	return kindKeys[k]
}

func (k Kind) String() string {
	if key, ok := kindKeys[k]; ok {
		return key
	}
	return "Opaque"
}

// KindOf classifies a mapping key.
func KindOf(key string) Kind {
	if kind, ok := keyKinds[key]; ok {
		return kind
	}
	return KindOpaque
}

// Directive is a single-key mapping that expresses a symbolic operation.
type Directive struct {
	Kind Kind
	Key  string
	Args any
}

// ParseDirective classifies value as a directive. Only single-key mappings
// qualify; ok is false for everything else. Single-key mappings with an
// unrecognized key parse as KindOpaque.
func ParseDirective(value any) (Directive, bool) {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return Directive{}, false
	}
	for key, args := range m {
		return Directive{Kind: KindOf(key), Key: key, Args: args}, true
	}
	return Directive{}, false
}

// IsStructured reports whether value is a mapping or a sequence.
func IsStructured(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// Ref builds {"Ref": name}.
func Ref(name string) map[string]any {
	return map[string]any{KindRef.Key(): name}
}

// GetAtt builds {"Fn::GetAtt": [resource, attribute]}.
func GetAtt(resource, attribute string) map[string]any {
	return map[string]any{KindGetAtt.Key(): []any{resource, attribute}}
}

// Reference builds the directive a Fn::Sub variable name stands for: a
// dotted name is an attribute lookup, anything else a plain Ref.
func Reference(name string) map[string]any {
	if resource, attribute, ok := strings.Cut(name, "."); ok {
		return GetAtt(resource, attribute)
	}
	return Ref(name)
}

// GetAttArgs normalizes Fn::GetAtt arguments to sequence form. The string
// form "Resource.Attribute" splits on the first dot.
func GetAttArgs(args any) ([]any, bool) {
	switch v := args.(type) {
	case []any:
		return v, len(v) > 0
	case string:
		resource, attribute, ok := strings.Cut(v, ".")
		if !ok {
			return []any{v}, v != ""
		}
		return []any{resource, attribute}, true
	default:
		return nil, false
	}
}

// GetAttPath joins Fn::GetAtt arguments into the dotted form used inside
// Fn::Sub strings. ok is false when any argument is not a string.
func GetAttPath(args any) (string, bool) {
	parts, ok := GetAttArgs(args)
	if !ok {
		return "", false
	}
	names := make([]string, len(parts))
	for i, part := range parts {
		s, ok := part.(string)
		if !ok {
			return "", false
		}
		names[i] = s
	}
	return strings.Join(names, "."), true
}

// SubArgs splits Fn::Sub arguments into the template string and the
// optional variable map of the sequence form.
func SubArgs(args any) (text string, vars map[string]any, ok bool) {
	switch v := args.(type) {
	case string:
		return v, nil, true
	case []any:
		if len(v) == 0 {
			return "", nil, false
		}
		text, ok := v[0].(string)
		if !ok {
			return "", nil, false
		}
		if len(v) > 1 {
			vars, _ = v[1].(map[string]any)
		}
		return text, vars, true
	default:
		return "", nil, false
	}
}
