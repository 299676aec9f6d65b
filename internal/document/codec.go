package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a document serialization format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. An empty name means YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want yaml or json)", name)
	}
}

// FormatFromPath picks the format from a file extension. Anything that is
// not .json or .jsonc is treated as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Decode parses a template. JSON input may carry comments and trailing
// commas. YAML input may use CloudFormation short-form tags.
func Decode(data []byte, format Format) (map[string]any, error) {
	if format == FormatJSON {
		return decodeJSON(data)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) (map[string]any, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return make(map[string]any), nil
	}

	var doc map[string]any
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return make(map[string]any), nil
	}

	value, err := fromNode(&root)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return make(map[string]any), nil
	}

	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("template root is not a mapping")
	}
	return doc, nil
}

// shortTagKey maps a short-form tag to its directive key:
// !Ref and !Condition keep their names, every other !Name becomes Fn::Name.
func shortTagKey(tag string) (string, bool) {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return "", false
	}
	name := tag[1:]
	switch name {
	case "":
		return "", false
	case "Ref", "Condition":
		return name, true
	default:
		return "Fn::" + name, true
	}
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	}

	key, tagged := shortTagKey(n.Tag)

	var value any
	switch n.Kind {
	case yaml.MappingNode:
		m, err := mappingFromNode(n)
		if err != nil {
			return nil, err
		}
		value = m

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		value = list

	case yaml.ScalarNode:
		switch {
		case tagged:
			value = n.Value
		case n.ShortTag() == "!!timestamp":
			value = n.Value
		default:
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			value = v
		}
	}

	if !tagged {
		return value, nil
	}
	if key == KindGetAtt.Key() {
		if s, ok := value.(string); ok {
			parts, _ := GetAttArgs(s)
			value = parts
		}
	}
	return map[string]any{key: value}, nil
}

func mappingFromNode(n *yaml.Node) (map[string]any, error) {
	m := make(map[string]any, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}

		value, err := fromNode(valueNode)
		if err != nil {
			return nil, err
		}

		// Merge keys (<<) contribute entries that explicit keys override.
		if keyNode.ShortTag() == "!!merge" {
			for _, inherited := range mergeSources(value) {
				for k, v := range inherited {
					if _, exists := m[k]; !exists {
						m[k] = v
					}
				}
			}
			continue
		}
		m[keyNode.Value] = value
	}
	return m, nil
}

func mergeSources(value any) []map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		var sources []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				sources = append(sources, m)
			}
		}
		return sources
	default:
		return nil
	}
}

// Encode projects doc onto the recognized sections and serializes it with
// the sections in canonical order.
func Encode(doc map[string]any, format Format) ([]byte, error) {
	projected := Assemble(doc)
	if format == FormatJSON {
		return encodeJSON(projected)
	}
	return encodeYAML(projected)
}

func encodeYAML(doc map[string]any) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range Sections {
		value, ok := doc[section]
		if !ok {
			continue
		}
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", section, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: section},
			&valueNode,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJSON(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	first := true
	for _, section := range Sections {
		value, ok := doc[section]
		if !ok {
			continue
		}
		key, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", section, err)
		}
		data, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", section, err)
		}
		if !first {
			buf.WriteString(",")
		}
		first = false
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(data)
	}
	if !first {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
