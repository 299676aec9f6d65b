package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/stackform/internal/document"
)

const parentTemplate = `
Description: web tier
Resources:
  Proxy:
    Type: Stack::Transform
    Template: proxy.yml
    Properties:
      Parameters:
        Port: 8443
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName:
        Xform::Transform: [DictToKVString, {env: prod}]
Outputs:
  Url:
    Value: !GetAtt [Proxy, Outputs.Endpoint]
`

const proxyTemplate = `
Parameters:
  Port:
    Type: Number
Resources:
  Listener:
    Type: AWS::ElasticLoadBalancingV2::Listener
    Properties:
      Port: !Ref Port
      Name: {{ .Name | lower }}-listener
  LoadBalancer:
    Type: AWS::ElasticLoadBalancingV2::LoadBalancer
Outputs:
  Endpoint:
    Value: !GetAtt LoadBalancer.DNSName
`

func newProject(t *testing.T) string {
	t.Helper()
	return setupProject(t, map[string]string{
		"stack.yml":           parentTemplate,
		"templates/proxy.yml": proxyTemplate,
	})
}

func decodeOutput(t *testing.T, output string, format document.Format) map[string]any {
	t.Helper()
	doc, err := document.Decode([]byte(output), format)
	require.NoError(t, err)
	return doc
}

func TestTransformCmd(t *testing.T) {
	t.Run("expands to stdout", func(t *testing.T) {
		resetRootCmd(t)
		root := newProject(t)

		stdout, _, err := executeSplit(t, "--root", root, "transform", filepath.Join(root, "stack.yml"))
		require.NoError(t, err)

		doc := decodeOutput(t, stdout, document.FormatYAML)
		resources := document.Section(doc, document.SectionResources)
		assert.NotContains(t, resources, "Proxy")

		listener, _ := resources["ProxyListener"].(map[string]any)
		require.NotNil(t, listener)
		assert.Equal(t, map[string]any{"Port": 8443, "Name": "proxy-listener"}, listener["Properties"])

		bucket, _ := resources["Bucket"].(map[string]any)
		assert.Equal(t, map[string]any{"BucketName": "env='prod'"}, bucket["Properties"])

		outputs := document.Section(doc, document.SectionOutputs)
		assert.Equal(t, map[string]any{"Value": map[string]any{"Fn::GetAtt": []any{"ProxyLoadBalancer", "DNSName"}}}, outputs["Url"])
		assert.Equal(t, "web tier", doc["Description"])
	})

	t.Run("no properties keeps markers", func(t *testing.T) {
		resetRootCmd(t)
		root := newProject(t)

		stdout, _, err := executeSplit(t, "--root", root, "transform", "--no-properties", filepath.Join(root, "stack.yml"))
		require.NoError(t, err)

		doc := decodeOutput(t, stdout, document.FormatYAML)
		bucket, _ := document.Section(doc, document.SectionResources)["Bucket"].(map[string]any)
		props, _ := bucket["Properties"].(map[string]any)
		assert.Contains(t, props["BucketName"], "Xform::Transform")
	})

	t.Run("writes json file", func(t *testing.T) {
		resetRootCmd(t)
		root := newProject(t)
		out := filepath.Join(root, "build", "stack.json")

		stdout, stderr, err := executeSplit(t, "--root", root, "transform", "-f", "json", "-o", out, filepath.Join(root, "stack.yml"))
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Wrote")

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		doc := decodeOutput(t, string(data), document.FormatJSON)
		assert.Contains(t, document.Section(doc, document.SectionResources), "ProxyLoadBalancer")
	})

	t.Run("template path flag", func(t *testing.T) {
		resetRootCmd(t)
		root := setupProject(t, map[string]string{
			"stack.yml":        parentTemplate,
			"shared/proxy.yml": proxyTemplate,
		})

		stdout, _, err := executeSplit(t, "--root", root, "transform", "-t", filepath.Join(root, "shared"), filepath.Join(root, "stack.yml"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "ProxyListener")
	})

	t.Run("configured template paths", func(t *testing.T) {
		resetRootCmd(t)
		root := setupProject(t, map[string]string{
			".stackform.yml":      "template_paths: [fragments]\nformat: json\n",
			"stack.yml":           parentTemplate,
			"fragments/proxy.yml": proxyTemplate,
		})

		stdout, _, err := executeSplit(t, "--root", root, "transform", filepath.Join(root, "stack.yml"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"), "configured format is json")
		assert.Contains(t, stdout, "ProxyListener")
	})

	t.Run("reads stdin", func(t *testing.T) {
		resetRootCmd(t)
		root := newProject(t)
		rootCmd.SetIn(strings.NewReader(parentTemplate))

		stdout, _, err := executeSplit(t, "--root", root, "transform", "-")
		require.NoError(t, err)
		assert.Contains(t, stdout, "ProxyListener")
	})

	t.Run("missing fragment", func(t *testing.T) {
		resetRootCmd(t)
		root := setupProject(t, map[string]string{"stack.yml": parentTemplate, "templates/.keep": ""})

		_, err := executeCmd(t, "--root", root, "transform", filepath.Join(root, "stack.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "proxy.yml not found")
	})

	t.Run("missing parameter", func(t *testing.T) {
		resetRootCmd(t)
		root := setupProject(t, map[string]string{
			"stack.yml":           "Resources:\n  Proxy:\n    Type: Stack::Transform\n    Template: proxy.yml\n",
			"templates/proxy.yml": proxyTemplate,
		})

		_, err := executeCmd(t, "--root", root, "transform", filepath.Join(root, "stack.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parameter Port of transform Proxy")
	})

	t.Run("invalid template", func(t *testing.T) {
		resetRootCmd(t)
		root := setupProject(t, map[string]string{"stack.yml": "Description: nothing\n"})

		_, err := executeCmd(t, "--root", root, "transform", filepath.Join(root, "stack.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no Resources")
	})

	t.Run("requires one argument", func(t *testing.T) {
		resetRootCmd(t)
		_, err := executeCmd(t, "transform")
		assert.Error(t, err)
	})
}

func TestPropertiesCmd(t *testing.T) {
	resetRootCmd(t)
	root := setupProject(t, map[string]string{"stack.json": `{
  // property transforms only
  "Resources": {
    "Group": {
      "Type": "AWS::EC2::SecurityGroup",
      "Properties": {
        "SecurityGroupIngress": {"Xform::Transform": ["SecurityRules", [{"CidrIp": "10.0.0.0/8", "Ports": ["udp/53"]}]]},
        "Other": {"Stack": "untouched"},
      }
    },
    "Proxy": {"Type": "Stack::Transform", "Template": "proxy.yml"}
  }
}`})

	stdout, _, err := executeSplit(t, "--root", root, "properties", filepath.Join(root, "stack.json"))
	require.NoError(t, err)

	doc := decodeOutput(t, stdout, document.FormatJSON)
	resources := document.Section(doc, document.SectionResources)
	assert.Contains(t, resources, "Proxy", "placeholders are not expanded")

	group, _ := resources["Group"].(map[string]any)
	props, _ := group["Properties"].(map[string]any)
	assert.Equal(t, []any{map[string]any{
		"IpProtocol": "udp",
		"FromPort":   float64(53),
		"ToPort":     float64(53),
		"CidrIp":     "10.0.0.0/8",
	}}, props["SecurityGroupIngress"])
}

func TestPropertiesCmd_UnknownFunction(t *testing.T) {
	resetRootCmd(t)
	root := setupProject(t, map[string]string{"stack.yml": `
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      Name:
        Xform::Transform: [NoSuchFunction, x]
`})

	_, err := executeCmd(t, "--root", root, "properties", filepath.Join(root, "stack.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bucket.Name")
	assert.Contains(t, err.Error(), "NoSuchFunction")
}
