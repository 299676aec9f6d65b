package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemble(t *testing.T) {
	doc := map[string]any{
		"Resources":   map[string]any{},
		"Description": "d",
		"Stack":       "dropped",
	}

	got := Assemble(doc)

	assert.Equal(t, map[string]any{"Resources": map[string]any{}, "Description": "d"}, got)
}

func TestClone(t *testing.T) {
	doc := map[string]any{"Resources": map[string]any{"A": map[string]any{"Type": "T"}}}

	clone := Clone(doc)
	Section(clone, "Resources")["B"] = 1

	assert.NotContains(t, Section(doc, "Resources"), "B")
	assert.NotNil(t, Clone(nil))
}

func TestEnsureSection(t *testing.T) {
	doc := map[string]any{}

	m := EnsureSection(doc, SectionMappings)
	m["K"] = 1

	assert.Equal(t, map[string]any{"K": 1}, Section(doc, SectionMappings))
	assert.Nil(t, Section(doc, SectionConditions))
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a"}, StringList("a"))
	assert.Equal(t, []string{"a", "b"}, StringList([]any{"a", 1, "b"}))
	assert.Nil(t, StringList(3))
}

func TestParseDirective(t *testing.T) {
	d, ok := ParseDirective(map[string]any{"Fn::GetAtt": []any{"A", "B"}})
	assert.True(t, ok)
	assert.Equal(t, KindGetAtt, d.Kind)

	d, ok = ParseDirective(map[string]any{"Custom": 1})
	assert.True(t, ok)
	assert.Equal(t, KindOpaque, d.Kind)

	_, ok = ParseDirective(map[string]any{"Ref": "A", "Extra": 1})
	assert.False(t, ok)

	_, ok = ParseDirective("Ref")
	assert.False(t, ok)
}

func TestGetAttArgs(t *testing.T) {
	args, ok := GetAttArgs("LB.DNSName")
	assert.True(t, ok)
	assert.Equal(t, []any{"LB", "DNSName"}, args)

	args, ok = GetAttArgs("Stack.Outputs.Url")
	assert.True(t, ok)
	assert.Equal(t, []any{"Stack", "Outputs.Url"}, args)

	_, ok = GetAttArgs(42)
	assert.False(t, ok)

	path, ok := GetAttPath([]any{"A", "Outputs.B"})
	assert.True(t, ok)
	assert.Equal(t, "A.Outputs.B", path)
}
