package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatYAML},
		{input: "yml", want: FormatYAML},
		{input: "YAML", want: FormatYAML},
		{input: " json ", want: FormatJSON},
		{input: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("stack.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("dir/stack.JSONC"))
	assert.Equal(t, FormatYAML, FormatFromPath("stack.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("stack.template"))
}

func TestDecode_YAMLShortTags(t *testing.T) {
	input := `
Conditions:
  IsProd: !Equals [!Ref Env, prod]
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Condition: IsProd
    Properties:
      Name: !Sub "${AWS::StackName}-data"
      Arn: !GetAtt Topic.TopicArn
      Other: !GetAtt [Queue, Arn]
      Flag: !Condition IsProd
      Created: 2024-01-02
`
	doc, err := Decode([]byte(input), FormatYAML)
	require.NoError(t, err)

	conditions := doc["Conditions"].(map[string]any)
	assert.Equal(t, map[string]any{"Fn::Equals": []any{map[string]any{"Ref": "Env"}, "prod"}}, conditions["IsProd"])

	props := propsOf(map[string]any{"Resources": map[string]any{
		"Target": doc["Resources"].(map[string]any)["Bucket"],
	}})
	assert.Equal(t, map[string]any{"Fn::Sub": "${AWS::StackName}-data"}, props["Name"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"Topic", "TopicArn"}}, props["Arn"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"Queue", "Arn"}}, props["Other"])
	assert.Equal(t, map[string]any{"Condition": "IsProd"}, props["Flag"])
	assert.Equal(t, "2024-01-02", props["Created"])
}

func TestDecode_YAMLMergeKeys(t *testing.T) {
	input := `
Mappings:
  Base: &base
    Region: us-east-1
    Size: small
  Prod:
    <<: *base
    Size: large
`
	doc, err := Decode([]byte(input), FormatYAML)
	require.NoError(t, err)

	mappings := doc["Mappings"].(map[string]any)
	assert.Equal(t, map[string]any{"Region": "us-east-1", "Size": "large"}, mappings["Prod"])
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("- a\n- b\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode([]byte("{not json"), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, doc)

	doc, err = Decode([]byte("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestDecode_JSONWithComments(t *testing.T) {
	input := `{
  // the only resource
  "Resources": {
    "Topic": {"Type": "AWS::SNS::Topic",},
  },
}`
	doc, err := Decode([]byte(input), FormatJSON)
	require.NoError(t, err)

	resources := doc["Resources"].(map[string]any)
	assert.Equal(t, map[string]any{"Type": "AWS::SNS::Topic"}, resources["Topic"])
}

func TestEncode_SectionOrder(t *testing.T) {
	doc := map[string]any{
		"Outputs":   map[string]any{"Name": map[string]any{"Value": "x"}},
		"Resources": map[string]any{"Topic": map[string]any{"Type": "AWS::SNS::Topic"}},
		"AWSTemplateFormatVersion": "2010-09-09",
		"Ignored":                  true,
	}

	t.Run("yaml", func(t *testing.T) {
		data, err := Encode(doc, FormatYAML)
		require.NoError(t, err)

		out := string(data)
		assert.NotContains(t, out, "Ignored")
		version := strings.Index(out, "AWSTemplateFormatVersion")
		resources := strings.Index(out, "Resources:")
		outputs := strings.Index(out, "Outputs:")
		assert.True(t, version < resources && resources < outputs, out)

		back, err := Decode(data, FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, Assemble(doc), back)
	})

	t.Run("json", func(t *testing.T) {
		data, err := Encode(doc, FormatJSON)
		require.NoError(t, err)

		out := string(data)
		assert.NotContains(t, out, "Ignored")
		assert.Less(t, strings.Index(out, `"Resources"`), strings.Index(out, `"Outputs"`))

		back, err := Decode(data, FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, Assemble(doc), back)
	})
}
