package transform

import (
	"strings"

	"github.com/cameronsjo/stackform/internal/document"
)

// SanitizeConditions forces literal evaluation of param inside conditions
// when its resolved value could not be evaluated there: every {"Ref": param}
// under conditions becomes the string param. It reports whether the value
// was illegal and conditions were rewritten.
func SanitizeConditions(conditions map[string]any, param string, value any, parentResources map[string]any) bool {
	if len(conditions) == 0 || !IllegalInCondition(value, parentResources) {
		return false
	}
	document.SearchAndReplace(conditions, param, param, true)
	return true
}

// IllegalInCondition reports whether value cannot appear inside a condition:
// a Ref to a parent resource, any attribute lookup, any import, or an
// interpolation naming a parent resource.
func IllegalInCondition(value any, parentResources map[string]any) bool {
	d, ok := document.ParseDirective(value)
	if !ok {
		return false
	}

	switch d.Kind {
	case document.KindRef:
		name, ok := d.Args.(string)
		if !ok {
			return false
		}
		_, exists := parentResources[name]
		return exists
	case document.KindGetAtt, document.KindImportValue:
		return true
	case document.KindSub:
		text, _, ok := document.SubArgs(d.Args)
		if !ok {
			return false
		}
		for _, name := range document.ParseSub(text).Names() {
			head, _, _ := strings.Cut(name, ".")
			if _, exists := parentResources[head]; exists {
				return true
			}
		}
		return false
	case document.KindFindInMap, document.KindIf, document.KindCondition, document.KindDependsOn,
		document.KindJoin, document.KindSelect, document.KindOpaque:
		return false
	}
	return false
}
