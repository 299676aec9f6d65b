package document

// CountReferences returns how many reference shapes in doc name the given
// entity. It recognizes the same shapes SearchAndReplace rewrites, so after
// renaming X to Y the count for X is zero and the count for Y grew by the
// count X had.
func CountReferences(doc any, name string) int {
	count := 0
	Walk(doc, func(c *Cursor) {
		switch KindOf(c.Key) {
		case KindRef:
			if s, ok := c.Value.(string); ok && s == name {
				count++
			}
		case KindCondition:
			if s, ok := c.Value.(string); ok && s == name && !c.InProperties() {
				count++
			}
		case KindGetAtt:
			if args, ok := GetAttArgs(c.Value); ok && args[0] == name {
				count++
			}
		case KindFindInMap, KindIf:
			if args, ok := c.Value.([]any); ok && len(args) > 0 && args[0] == name {
				count++
			}
		case KindDependsOn:
			if c.InProperties() {
				return
			}
			for _, dep := range StringList(c.Value) {
				if dep == name {
					count++
				}
			}
		case KindSub:
			text, vars, ok := SubArgs(c.Value)
			if !ok {
				return
			}
			if _, shadowed := vars[name]; !shadowed && ParseSub(text).References(name) {
				count++
			}
		case KindImportValue, KindJoin, KindSelect, KindOpaque:
		}
	})
	return count
}
