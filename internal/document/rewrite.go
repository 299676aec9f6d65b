package document

import "reflect"

// SearchAndReplace rewrites, in place, every reference to search found in
// doc.
//
// A string search matches the reference shapes:
//
//	{"Ref": search}
//	{"Fn::GetAtt" | "Fn::FindInMap" | "Fn::If": [search, ...]}
//	{"Condition": search}            outside Properties
//	{"DependsOn": search | [..., search, ...]}  outside Properties
//	{"Fn::Sub": "...${search}..."}   including ${search.Attribute}
//
// In the default mode only the referenced name is rewritten and the
// directive keeps its shape. When replacement is not a name, a Ref or
// Fn::GetAtt is replaced whole and Fn::FindInMap takes it as its map name;
// Fn::If, Condition and Fn::Sub keep the old name. A sequence replacement
// only rewrites DependsOn. With asValue the whole
// referencing expression is replaced by replacement, which is how resolved
// values are substituted for parameters and outputs.
//
// A mapping or sequence search matches any node deep-equal to it, and that
// node is replaced wholesale in both modes.
//
// DependsOn is deliberately overloaded: a string replacement substitutes the
// matching entry, a sequence replacement removes it and appends every
// replacement entry.
//
// Replacement values are deep-copied on every insertion.
func SearchAndReplace(doc any, search, replacement any, asValue bool) {
	r := &rewriter{search: search, replacement: replacement, asValue: asValue}
	r.name, r.byName = search.(string)
	r.newName, r.renaming = replacement.(string)
	_, r.listing = replacement.([]any)
	Walk(doc, r.visit)
}

type rewriter struct {
	search      any
	replacement any
	asValue     bool

	// name is the search when it is a string.
	name   string
	byName bool

	// newName is the replacement when it is a string.
	newName  string
	renaming bool

	// listing is set for a sequence replacement, which in the default mode
	// only applies to DependsOn.
	listing bool
}

func (r *rewriter) value() any {
	return DeepCopy(r.replacement)
}

func (r *rewriter) visit(c *Cursor) {
	if !r.byName {
		r.replaceStructural(c)
		return
	}

	switch KindOf(c.Key) {
	case KindRef:
		r.rewriteRef(c)
	case KindGetAtt, KindFindInMap, KindIf:
		r.rewriteHead(c)
	case KindCondition:
		r.rewriteCondition(c)
	case KindDependsOn:
		r.rewriteDependsOn(c)
	case KindSub:
		r.rewriteSub(c)
	case KindImportValue, KindJoin, KindSelect, KindOpaque:
		// Not reference shapes themselves; nested directives are reached by
		// the walk.
	}
}

func (r *rewriter) replaceStructural(c *Cursor) {
	if reflect.DeepEqual(c.Value, r.search) {
		c.Node[c.Key] = r.value()
		return
	}
	if items, ok := c.Value.([]any); ok {
		r.replaceElements(items)
	}
}

// replaceElements matches sequence elements at every depth, such as the
// parts list of a Fn::Join. Mappings are left to the walk.
func (r *rewriter) replaceElements(items []any) {
	for i := range items {
		if reflect.DeepEqual(items[i], r.search) {
			items[i] = r.value()
			continue
		}
		if nested, ok := items[i].([]any); ok {
			r.replaceElements(nested)
		}
	}
}

func (r *rewriter) rewriteRef(c *Cursor) {
	if target, ok := c.Value.(string); !ok || target != r.name {
		return
	}
	switch {
	case r.asValue:
		c.Parent.Set(r.value())
	case r.renaming:
		c.Node[c.Key] = r.newName
	case !r.listing:
		c.Parent.Set(r.value())
	}
}

// rewriteHead handles directives whose first argument names the referenced
// entity.
func (r *rewriter) rewriteHead(c *Cursor) {
	var args []any
	if KindOf(c.Key) == KindGetAtt {
		parts, ok := GetAttArgs(c.Value)
		if !ok {
			return
		}
		args = parts
	} else {
		list, ok := c.Value.([]any)
		if !ok || len(list) == 0 {
			return
		}
		args = list
	}

	if head, ok := args[0].(string); !ok || head != r.name {
		return
	}

	if r.listing && !r.asValue {
		return
	}

	// Mapping names may themselves be expressions; logical IDs and condition
	// names may not.
	if !r.renaming && KindOf(c.Key) != KindFindInMap {
		if !r.asValue && KindOf(c.Key) == KindGetAtt {
			c.Parent.Set(r.value())
		}
		return
	}

	updated := make([]any, len(args))
	copy(updated, args)
	updated[0] = r.value()
	c.Node[c.Key] = updated
}

func (r *rewriter) rewriteCondition(c *Cursor) {
	if c.InProperties() || !r.renaming {
		return
	}
	if name, ok := c.Value.(string); ok && name == r.name {
		c.Node[c.Key] = r.newName
	}
}

func (r *rewriter) rewriteDependsOn(c *Cursor) {
	if c.InProperties() {
		return
	}

	switch deps := c.Value.(type) {
	case string:
		if deps != r.name {
			return
		}
		switch repl := r.replacement.(type) {
		case string:
			c.Node[c.Key] = repl
		case []any:
			c.Node[c.Key] = DeepCopy(repl)
		}

	case []any:
		idx := -1
		for i, dep := range deps {
			if s, ok := dep.(string); ok && s == r.name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		switch repl := r.replacement.(type) {
		case string:
			updated := make([]any, len(deps))
			copy(updated, deps)
			updated[idx] = repl
			c.Node[c.Key] = updated
		case []any:
			updated := make([]any, 0, len(deps)-1+len(repl))
			updated = append(updated, deps[:idx]...)
			updated = append(updated, deps[idx+1:]...)
			updated = append(updated, DeepCopy(repl).([]any)...)
			c.Node[c.Key] = updated
		}
	}
}

func (r *rewriter) rewriteSub(c *Cursor) {
	text, vars, ok := SubArgs(c.Value)
	if !ok {
		return
	}
	// Variables bound by the sequence form shadow template-level names.
	if _, shadowed := vars[r.name]; shadowed {
		return
	}

	segs := ParseSub(text)
	if !segs.References(r.name) {
		return
	}

	if !r.asValue {
		if r.renaming {
			setSubText(c, segs.Rename(r.name, r.newName).String())
		}
		return
	}

	if !segs.ReferencesExactly(r.name) {
		return
	}

	inline, ok := r.inlineSegments()
	if !ok {
		c.Parent.Set(segs.Join(r.name, r.replacement, vars))
		return
	}
	setSubText(c, segs.Replace(r.name, inline).String())
}

// inlineSegments expresses the replacement as interpolation segments. ok is
// false when the replacement is structured and cannot be written inside a
// Fn::Sub string.
func (r *rewriter) inlineSegments() (Segments, bool) {
	if !IsStructured(r.replacement) {
		return ParseSub(toString(r.replacement)), true
	}

	d, ok := ParseDirective(r.replacement)
	if !ok {
		return nil, false
	}

	switch d.Kind {
	case KindRef:
		if target, ok := d.Args.(string); ok {
			return Segments{{Ref: true, Text: target}}, true
		}
	case KindSub:
		if text, ok := d.Args.(string); ok {
			return ParseSub(text), true
		}
	case KindGetAtt:
		if path, ok := GetAttPath(d.Args); ok {
			return Segments{{Ref: true, Text: path}}, true
		}
	case KindFindInMap, KindIf, KindCondition, KindDependsOn, KindImportValue, KindJoin, KindSelect, KindOpaque:
	}
	return nil, false
}

func setSubText(c *Cursor, text string) {
	if list, ok := c.Value.([]any); ok {
		updated := make([]any, len(list))
		copy(updated, list)
		updated[0] = text
		c.Node[c.Key] = updated
		return
	}
	c.Node[c.Key] = text
}
