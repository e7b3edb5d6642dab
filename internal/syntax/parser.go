package syntax

import (
	"fmt"
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
)

// grammar holds the process-wide parser for one language. The parser is
// created on first use and parse calls are serialized because a
// tree-sitter parser is not safe for concurrent use.
type grammar struct {
	load func() unsafe.Pointer

	once   sync.Once
	err    error
	mu     sync.Mutex
	parser *tree_sitter.Parser
}

var grammars = map[Language]*grammar{
	LangC:   {load: tree_sitter_c.Language},
	LangCXX: {load: tree_sitter_cpp.Language},
}

func (g *grammar) init(lang Language) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(g.load())); err != nil {
		parser.Close()
		g.err = fmt.Errorf("set language %s: %w", lang, err)
		return
	}
	g.parser = parser
}

// Parse parses source with the grammar for lang and returns the root of an
// owned copy of the syntax tree. Identical input always yields an
// identical tree. Malformed input still yields a tree; recovery nodes are
// marked with Node.Error.
func Parse(source []byte, lang Language) (*Node, error) {
	g, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	g.once.Do(func() { g.init(lang) })
	if g.err != nil {
		return nil, g.err
	}

	g.mu.Lock()
	tree := g.parser.Parse(source, nil)
	g.mu.Unlock()
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", lang)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	return build(cursor, nil), nil
}

// build copies the node under cursor and its subtree.
func build(cursor *tree_sitter.TreeCursor, parent *Node) *Node {
	tsNode := cursor.Node()
	start, end := tsNode.StartPosition(), tsNode.EndPosition()

	n := &Node{
		Kind:      tsNode.Kind(),
		Field:     cursor.FieldName(),
		Named:     tsNode.IsNamed(),
		Error:     tsNode.IsError() || tsNode.IsMissing(),
		Start:     Point{Row: int(start.Row), Column: int(start.Column)},
		End:       Point{Row: int(end.Row), Column: int(end.Column)},
		StartByte: int(tsNode.StartByte()),
		EndByte:   int(tsNode.EndByte()),
		Parent:    parent,
	}

	if cursor.GotoFirstChild() {
		n.Children = append(n.Children, build(cursor, n))
		for cursor.GotoNextSibling() {
			n.Children = append(n.Children, build(cursor, n))
		}
		cursor.GotoParent()
	}
	return n
}
