package functions

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cameronsjo/stackform/internal/document"
)

func builtins() map[string]any {
	return map[string]any{
		"combine":           Combine,
		"security_rules":    SecurityRules,
		"stack_inputs":      StackInputs,
		"dict_override":     DictOverride,
		"dict_to_kv_string": DictToKVString,
		"cfn_dotted_dict":   DottedDict,
		"timestamp":         Timestamp,
	}
}

// Combine merges b into a. Pass true to merge recursively; the default is a
// shallow merge of top-level keys.
func Combine(a, b map[string]any, recursive ...bool) map[string]any {
	return document.Combine(a, b, len(recursive) > 0 && recursive[0])
}

var portRange = regexp.MustCompile(`^(-?\d+)(?:-(-?\d+))?$`)

// SecurityRules expands compact ingress rules into security group entries.
// Each rule lists CidrIp blocks and Ports; a port is a number, "from-to",
// or either prefixed by a protocol as in "udp/53". The protocol defaults to
// tcp.
func SecurityRules(rules []any) ([]any, error) {
	var entries []any
	for i, raw := range rules {
		rule, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("rule %d is not a mapping", i)
		}
		cidrs := document.StringList(rule["CidrIp"])
		ports, ok := rule["Ports"].([]any)
		if !ok {
			ports = []any{rule["Ports"]}
		}

		for _, cidr := range cidrs {
			for _, port := range ports {
				protocol, from, to, err := parsePort(port)
				if err != nil {
					return nil, fmt.Errorf("rule %d: %w", i, err)
				}
				entries = append(entries, map[string]any{
					"IpProtocol": protocol,
					"FromPort":   from,
					"ToPort":     to,
					"CidrIp":     cidr,
				})
			}
		}
	}
	return entries, nil
}

func parsePort(port any) (protocol string, from, to int, err error) {
	var expr string
	switch p := port.(type) {
	case int:
		return "tcp", p, p, nil
	case float64:
		return "tcp", int(p), int(p), nil
	case string:
		expr = strings.TrimSpace(p)
	default:
		return "", 0, 0, fmt.Errorf("invalid port %v", port)
	}

	protocol = "tcp"
	if proto, rest, ok := strings.Cut(expr, "/"); ok {
		protocol, expr = proto, rest
	}

	m := portRange.FindStringSubmatch(expr)
	if m == nil {
		return "", 0, 0, fmt.Errorf("invalid port expression %q", port)
	}
	from, _ = strconv.Atoi(m[1])
	to = from
	if m[2] != "" {
		to, _ = strconv.Atoi(m[2])
	}
	return protocol, from, to, nil
}

var (
	wordBoundary  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerToUpper  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	dottedSpecial = regexp.MustCompile(`[\[\]*]`)
)

func snakeCase(s string) string {
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(lowerToUpper.ReplaceAllString(s, "${1}_${2}"))
}

// StackInputs resolves template parameters to input values. Each parameter
// takes the variable named prefix+snake_case(name), falling back to its
// Default. The prefix defaults to "config_".
func StackInputs(inputs, vars map[string]any, prefix ...string) (map[string]any, error) {
	p := "config_"
	if len(prefix) > 0 {
		p = prefix[0]
	}

	result := make(map[string]any, len(inputs))
	for _, name := range document.SortedKeys(inputs) {
		variable := p + snakeCase(name)
		if v, ok := vars[variable]; ok && v != nil && v != "" {
			result[name] = v
			continue
		}
		descriptor, _ := inputs[name].(map[string]any)
		if def, ok := descriptor["Default"]; ok {
			result[name] = def
			continue
		}
		return nil, fmt.Errorf("missing %s variable for %s input; define the variable or give the input a Default", variable, name)
	}
	return result, nil
}

// DictOverride returns, for each source entry whose selector field equals an
// override key, that override under the source entry's key. The selector
// defaults to "Type".
func DictOverride(source, overrides map[string]any, selector ...string) map[string]any {
	field := "Type"
	if len(selector) > 0 {
		field = selector[0]
	}

	result := make(map[string]any)
	for match, override := range overrides {
		for key, raw := range source {
			entry, ok := raw.(map[string]any)
			if ok && entry[field] == match {
				result[key] = override
			}
		}
	}
	return result
}

// DictToKVString renders source as key='value' pairs sorted by key. The
// separator defaults to a single space.
func DictToKVString(source map[string]any, separator ...string) string {
	sep := " "
	if len(separator) > 0 {
		sep = separator[0]
	}

	pairs := make([]string, 0, len(source))
	for _, key := range document.SortedKeys(source) {
		pairs = append(pairs, fmt.Sprintf("%s='%v'", key, source[key]))
	}
	return strings.Join(pairs, sep)
}

// DottedDict expands dotted variable names starting with any of prefixes
// into a nested mapping; with no prefixes every variable is expanded. Names
// containing [, ] or * are selector expressions and are skipped.
func DottedDict(vars map[string]any, prefixes ...string) (map[string]any, error) {
	keys := document.SortedKeys(vars)
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) < len(keys[j]) })

	doc := ""
	for _, key := range keys {
		if dottedSpecial.MatchString(key) || !hasAnyPrefix(key, prefixes) {
			continue
		}
		var err error
		doc, err = sjson.Set(doc, escapePath(key), vars[key])
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	result, _ := gjson.Parse(doc).Value().(map[string]any)
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

func hasAnyPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func escapePath(key string) string {
	parts := strings.Split(key, ".")
	for i, part := range parts {
		parts[i] = gjson.Escape(part)
	}
	return strings.Join(parts, ".")
}

// Timestamp returns the current Unix time in seconds. Arguments are ignored.
func Timestamp(...any) int64 {
	return time.Now().Unix()
}
