package document

import "sort"

// Top-level template sections.
const (
	SectionFormatVersion = "AWSTemplateFormatVersion"
	SectionDescription   = "Description"
	SectionMetadata      = "Metadata"
	SectionParameters    = "Parameters"
	SectionMappings      = "Mappings"
	SectionConditions    = "Conditions"
	SectionTransform     = "Transform"
	SectionResources     = "Resources"
	SectionOutputs       = "Outputs"
)

// Sections lists the recognized top-level sections in emission order.
var Sections = []string{
	SectionFormatVersion,
	SectionDescription,
	SectionMetadata,
	SectionParameters,
	SectionMappings,
	SectionConditions,
	SectionTransform,
	SectionResources,
	SectionOutputs,
}

// IsSection reports whether name is a recognized top-level section.
func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// Assemble projects doc onto the recognized sections. Anything else at the
// top level is dropped. The returned map shares values with doc.
func Assemble(doc map[string]any) map[string]any {
	result := make(map[string]any, len(Sections))
	for _, section := range Sections {
		if value, ok := doc[section]; ok {
			result[section] = value
		}
	}
	return result
}

// Clone returns a deep copy of doc. A nil doc clones to an empty map.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return make(map[string]any)
	}
	return DeepCopy(doc).(map[string]any)
}

// Section returns the mapping stored under name, or nil when the section is
// absent or not a mapping.
func Section(doc map[string]any, name string) map[string]any {
	m, _ := doc[name].(map[string]any)
	return m
}

// EnsureSection returns the mapping stored under name, creating it when absent.
func EnsureSection(doc map[string]any, name string) map[string]any {
	if m := Section(doc, name); m != nil {
		return m
	}
	m := make(map[string]any)
	doc[name] = m
	return m
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringList normalizes a string or a sequence of strings to []string.
// Non-string sequence entries are skipped.
func StringList(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
