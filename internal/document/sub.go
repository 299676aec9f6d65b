package document

import (
	"fmt"
	"strings"
)

// Segment is one piece of a Fn::Sub string: either literal text or a
// ${Name} variable reference.
type Segment struct {
	// Ref is true for variable references.
	Ref bool

	// Text is the rendered literal text, or the variable name for references.
	// Escaped variables (${!Name}) are literals rendered as ${Name}.
	Text string
}

// Segments is a tokenized Fn::Sub string.
type Segments []Segment

// ParseSub tokenizes an interpolation string. An unterminated ${ is kept as
// literal text.
func ParseSub(text string) Segments {
	var segs Segments
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Text: lit.String()})
			lit.Reset()
		}
	}

	rest := text
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			lit.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			lit.WriteString(rest)
			break
		}
		end += start + 2

		lit.WriteString(rest[:start])
		inner := rest[start+2 : end]
		if strings.HasPrefix(inner, "!") {
			lit.WriteString("${" + inner[1:] + "}")
		} else {
			flush()
			segs = append(segs, Segment{Ref: true, Text: strings.TrimSpace(inner)})
		}
		rest = rest[end+1:]
	}
	flush()

	return segs
}

// String renders the segments back into a Fn::Sub string. Literal text that
// would read as a variable is escaped.
func (s Segments) String() string {
	var b strings.Builder
	for _, seg := range s {
		if seg.Ref {
			b.WriteString("${" + seg.Text + "}")
			continue
		}
		b.WriteString(strings.ReplaceAll(seg.Text, "${", "${!"))
	}
	return b.String()
}

// Names returns the variable names referenced, in order of appearance.
func (s Segments) Names() []string {
	var names []string
	for _, seg := range s {
		if seg.Ref {
			names = append(names, seg.Text)
		}
	}
	return names
}

// References reports whether any variable is name itself or an attribute of
// it (name.Attribute).
func (s Segments) References(name string) bool {
	for _, seg := range s {
		if seg.Ref && refersTo(seg.Text, name) {
			return true
		}
	}
	return false
}

// ReferencesExactly reports whether any variable is exactly name.
func (s Segments) ReferencesExactly(name string) bool {
	for _, seg := range s {
		if seg.Ref && seg.Text == name {
			return true
		}
	}
	return false
}

// Rename rewrites variables referring to old (including old.Attribute) to
// refer to name instead.
func (s Segments) Rename(old, name string) Segments {
	result := make(Segments, len(s))
	for i, seg := range s {
		if seg.Ref && refersTo(seg.Text, old) {
			seg.Text = name + seg.Text[len(old):]
		}
		result[i] = seg
	}
	return result
}

// Replace substitutes every variable named exactly name with the given
// segments.
func (s Segments) Replace(name string, with Segments) Segments {
	result := make(Segments, 0, len(s))
	for _, seg := range s {
		if seg.Ref && seg.Text == name {
			result = append(result, with...)
			continue
		}
		result = append(result, seg)
	}
	return result.compact()
}

// Join builds the {"Fn::Join": ["", parts]} equivalent of the segments with
// the variable name replaced by value. Literal text is kept, variables bound
// in bindings are inlined and every other variable becomes a Ref or GetAtt.
// Adjacent literal parts are merged and empty ones dropped.
func (s Segments) Join(name string, value any, bindings map[string]any) map[string]any {
	parts := make([]any, 0, len(s))
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, lit.String())
			lit.Reset()
		}
	}

	for _, seg := range s {
		if !seg.Ref {
			lit.WriteString(seg.Text)
			continue
		}

		var part any
		if seg.Text == name {
			part = DeepCopy(value)
		} else if bound, ok := bindings[seg.Text]; ok {
			part = DeepCopy(bound)
		} else {
			part = Reference(seg.Text)
		}

		if !IsStructured(part) {
			lit.WriteString(toString(part))
			continue
		}
		flush()
		parts = append(parts, part)
	}
	flush()

	return map[string]any{KindJoin.Key(): []any{"", parts}}
}

// compact merges adjacent literals and drops empty ones.
func (s Segments) compact() Segments {
	result := make(Segments, 0, len(s))
	for _, seg := range s {
		if !seg.Ref {
			if seg.Text == "" {
				continue
			}
			if n := len(result); n > 0 && !result[n-1].Ref {
				result[n-1].Text += seg.Text
				continue
			}
		}
		result = append(result, seg)
	}
	return result
}

func refersTo(variable, name string) bool {
	return variable == name || strings.HasPrefix(variable, name+".")
}

// toString converts a scalar to the text it contributes to an interpolation.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
