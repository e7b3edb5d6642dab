package checks

import (
	"regexp"
	"unicode"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

var asmPattern = regexp.MustCompile(`\b__asm|\basm\s*\(`)

// checkDeclarations covers one declarator per declaration and
// variable-length arrays.
func checkDeclarations(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	for _, decl := range f.Nodes.Get("declaration") {
		if cfg.Enabled(lint.DeclSingle) && !declaresFunction(decl) && !isLoopInit(decl) {
			if len(decl.ChildrenByField("declarator")) > 1 {
				r.at(lint.DeclSingle, decl, "One declaration per line")
			}
		}

		if cfg.Enabled(lint.DeclVLA) {
			for _, arr := range decl.Find("array_declarator") {
				if isVLA(f, arr) {
					r.at(lint.DeclVLA, arr, "VLA not allowed")
				}
			}
		}
	}
	return r.violations()
}

// isLoopInit reports whether decl is the initializer of a for loop, where
// "int i = 0, j = n" is idiomatic.
func isLoopInit(decl *syntax.Node) bool {
	return decl.Parent != nil && decl.Parent.Kind == "for_statement"
}

// isVLA reports whether arr is sized by a lowercase identifier and has no
// initializer. Upper-case names are taken to be macros.
func isVLA(f *File, arr *syntax.Node) bool {
	size := arr.ChildByField("size")
	if size == nil || size.Kind != "identifier" {
		return false
	}
	if p := arr.Parent; p != nil && p.Kind == "init_declarator" && p.ChildByField("value") != nil {
		return false
	}
	return !isUpperName(f.Text(size))
}

// isUpperName reports whether s has at least one letter and no lowercase
// letter, so "N", "BUF_SIZE" and "N2" qualify.
func isUpperName(s string) bool {
	cased := false
	for _, c := range s {
		if unicode.IsLower(c) {
			return false
		}
		if unicode.IsUpper(c) {
			cased = true
		}
	}
	return cased
}

// checkControl covers inline assembly, empty loops, goto and casts.
func checkControl(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.StatAsm) {
		for i, m := range f.Masked() {
			if loc := asmPattern.FindStringIndex(m); loc != nil {
				r.add(lint.StatAsm, i, loc[0], "asm not allowed")
			}
		}
	}

	if cfg.Enabled(lint.CtrlEmpty) {
		for _, loop := range f.Nodes.Get("for_statement", "while_statement", "for_range_loop") {
			if body := loop.ChildByField("body"); isEmptyStatement(body) {
				r.add(lint.CtrlEmpty, body.Start.Row, body.Start.Column, "Use 'continue' for empty loops")
			}
		}
	}

	if f.Lang == syntax.LangC {
		if cfg.Enabled(lint.KeywordGoto) {
			for _, n := range f.Nodes.Get("goto_statement") {
				r.at(lint.KeywordGoto, n, "goto not allowed")
			}
		}
		if cfg.Enabled(lint.Cast) {
			for _, n := range f.Nodes.Get("cast_expression") {
				r.at(lint.Cast, n, "Explicit cast not allowed")
			}
		}
	}
	return r.violations()
}

// isEmptyStatement reports whether n is a lone ";".
func isEmptyStatement(n *syntax.Node) bool {
	if n == nil || n.Kind != "expression_statement" {
		return false
	}
	for _, c := range n.Children {
		if c.Kind != ";" {
			return false
		}
	}
	return true
}
