package document

// Slot addresses a child inside a mapping (string key) or a sequence
// (int index). The zero Slot addresses nothing.
type Slot struct {
	Container any
	Key       any
}

// Get returns the value stored in the slot.
func (s Slot) Get() (any, bool) {
	switch c := s.Container.(type) {
	case map[string]any:
		key, ok := s.Key.(string)
		if !ok {
			return nil, false
		}
		v, ok := c[key]
		return v, ok
	case []any:
		i, ok := s.Key.(int)
		if !ok || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

// Set replaces the value stored in the slot. It reports false when the slot
// does not address a child.
func (s Slot) Set(value any) bool {
	switch c := s.Container.(type) {
	case map[string]any:
		key, ok := s.Key.(string)
		if !ok {
			return false
		}
		c[key] = value
		return true
	case []any:
		i, ok := s.Key.(int)
		if !ok || i < 0 || i >= len(c) {
			return false
		}
		c[i] = value
		return true
	default:
		return false
	}
}

// Cursor describes one mapping entry during a walk.
type Cursor struct {
	// Key and Value are the entry being visited.
	Key   string
	Value any

	// Node is the mapping that holds the entry.
	Node map[string]any

	// Parent is where Node itself is stored. It is the zero Slot for the root.
	Parent Slot

	// Path holds the keys (string) and indexes (int) from the root to Node.
	Path []any
}

// InProperties reports whether the entry sits inside a Properties subtree.
func (c *Cursor) InProperties() bool {
	for _, step := range c.Path {
		if step == "Properties" {
			return true
		}
	}
	return false
}

// VisitFunc is called for every mapping entry.
type VisitFunc func(c *Cursor)

// Walk traverses node depth-first and pre-order. Mapping keys are visited in
// lexical order; sequence elements are descended into by index. After visit
// returns, the walker re-reads the entry and descends into whatever value is
// stored there now, so replacements are walked too. The walker has no cycle
// guard: a visit must never store a value that reproduces the match it just
// rewrote.
func Walk(node any, visit VisitFunc) {
	walk(node, Slot{}, nil, visit)
}

func walk(node any, parent Slot, path []any, visit VisitFunc) {
	switch n := node.(type) {
	case []any:
		for i := range n {
			walk(n[i], Slot{Container: n, Key: i}, extend(path, i), visit)
		}
	case map[string]any:
		for _, key := range SortedKeys(n) {
			value, ok := n[key]
			if !ok {
				continue
			}
			visit(&Cursor{Key: key, Value: value, Node: n, Parent: parent, Path: path})

			child, ok := n[key]
			if !ok {
				continue
			}
			walk(child, Slot{Container: n, Key: key}, extend(path, key), visit)
		}
	}
}

func extend(path []any, step any) []any {
	next := make([]any, len(path), len(path)+1)
	copy(next, path)
	return append(next, step)
}
