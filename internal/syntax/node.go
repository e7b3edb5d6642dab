package syntax

// Point is a 0-based position in a source file. Column counts bytes.
type Point struct {
	Row    int
	Column int
}

// Node is an owned copy of a tree-sitter node. Rule code works on Node
// values only, so no tree-sitter memory outlives a Parse call.
type Node struct {
	Kind  string
	Field string // field name in the parent, "" when unnamed
	Named bool

	// Error is set for ERROR and MISSING nodes produced by grammar recovery.
	Error bool

	Start     Point
	End       Point
	StartByte int
	EndByte   int

	Parent   *Node
	Children []*Node
}

// Text returns the source text covered by n.
func (n *Node) Text(src []byte) string {
	if n.StartByte < 0 || n.EndByte > len(src) || n.StartByte > n.EndByte {
		return ""
	}
	return string(src[n.StartByte:n.EndByte])
}

// Line returns the 1-based line on which n starts.
func (n *Node) Line() int {
	return n.Start.Row + 1
}

// ChildByField returns the first child stored under the given field name.
func (n *Node) ChildByField(name string) *Node {
	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child stored under the given field name,
// e.g. each declarator of "int a, b;".
func (n *Node) ChildrenByField(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Field == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first direct child whose kind is one of kinds.
func (n *Node) ChildOfKind(kinds ...string) *Node {
	for _, c := range n.Children {
		if matchKind(c.Kind, kinds) {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns the direct children whose kind is one of kinds.
func (n *Node) ChildrenOfKind(kinds ...string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if matchKind(c.Kind, kinds) {
			out = append(out, c)
		}
	}
	return out
}

// HasChild reports whether n has a direct child of the given kind.
func (n *Node) HasChild(kind string) bool {
	return n.ChildOfKind(kind) != nil
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns n and every descendant whose kind is one of kinds, in
// document order.
func (n *Node) Find(kinds ...string) []*Node {
	var out []*Node
	n.Walk(func(d *Node) bool {
		if matchKind(d.Kind, kinds) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// FindFirst returns the first node of the given kind in n's subtree.
func (n *Node) FindFirst(kind string) *Node {
	if n.Kind == kind {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindFirst(kind); found != nil {
			return found
		}
	}
	return nil
}

// Ancestor returns the closest proper ancestor whose kind is one of kinds.
func (n *Node) Ancestor(kinds ...string) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if matchKind(p.Kind, kinds) {
			return p
		}
	}
	return nil
}

func matchKind(kind string, kinds []string) bool {
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
