package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Binary operators, longest first so "&&" is seen before "&".
var binaryOperators = []string{
	"&&", "||", "<<", ">>", "==", "!=", "<=", ">=",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">",
}

// Shift assignments whose tail would otherwise read as "<=" or ">=".
var shiftAssignments = []string{"<<=", ">>="}

// tokenAt is an operator spelling on a 0-based row.
type tokenAt struct {
	row int
	op  string
}

// typeSyntax records where operator spellings are type syntax. Closing
// brackets and declarators are tracked per row; an opening template
// bracket only at its exact position.
type typeSyntax struct {
	rows  map[tokenAt]bool
	opens map[syntax.Point]bool
}

// excludes reports whether op, ending the line at row with its first
// byte at col, is type syntax.
func (ts typeSyntax) excludes(row, col int, op string) bool {
	if op == "<" {
		return ts.opens[syntax.Point{Row: row, Column: col}]
	}
	return ts.rows[tokenAt{row, op}]
}

// nonBinaryTokens walks the tree once and records where ">", ">>", "&",
// "&&", "*" and "<" are type syntax rather than binary operators: template
// brackets, reference and pointer declarators, trailing return types.
func nonBinaryTokens(root *syntax.Node) typeSyntax {
	ts := typeSyntax{
		rows:  make(map[tokenAt]bool),
		opens: make(map[syntax.Point]bool),
	}
	exclude := func(row int, ops ...string) {
		for _, op := range ops {
			ts.rows[tokenAt{row, op}] = true
		}
	}

	root.Walk(func(n *syntax.Node) bool {
		switch n.Kind {
		case "template_parameter_list", "template_argument_list":
			for _, c := range n.ChildrenOfKind("<") {
				ts.opens[c.Start] = true
			}
			exclude(n.End.Row, ">", ">>")
		case "reference_declarator", "abstract_reference_declarator", "type_descriptor":
			for _, c := range n.ChildrenOfKind("&", "&&") {
				exclude(c.Start.Row, c.Kind)
			}
		case "pointer_declarator", "abstract_pointer_declarator":
			for _, c := range n.ChildrenOfKind("*") {
				exclude(c.Start.Row, "*")
			}
		case "trailing_return_type":
			exclude(n.End.Row, "&", "*", ">", ">>")
		}
		return true
	})
	return ts
}

// checkLinebreak reports lines that end with a binary operator. Tokens the
// tree shows to be type syntax are not operators.
func checkLinebreak(f *File) []lint.Violation {
	if !f.Config.Enabled(lint.ExpLinebreak) {
		return nil
	}
	r := newReporter(f)
	types := nonBinaryTokens(f.Root())

	for i, m := range f.Masked() {
		s := strings.TrimSpace(m)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		op, before, ok := trailingOperator(s)
		if !ok {
			continue
		}
		col := indent(m) + len(s) - len(op)
		if types.excludes(i, col, op) {
			continue
		}
		if before == "" || strings.HasSuffix(before, "(") || strings.HasSuffix(before, ",") || strings.HasSuffix(before, "=") {
			continue
		}
		r.addf(lint.ExpLinebreak, i, col,
			"Line break should come before '%s', not after", op)
	}
	return r.violations()
}

// trailingOperator returns the binary operator s ends with and the
// trimmed text before it. "i++", "i--", "p->" and shift assignments do
// not end with one.
func trailingOperator(s string) (op, before string, ok bool) {
	for _, a := range shiftAssignments {
		if strings.HasSuffix(s, a) {
			return "", "", false
		}
	}
	for _, cand := range binaryOperators {
		if !strings.HasSuffix(s, cand) {
			continue
		}
		rest := s[:len(s)-len(cand)]
		switch {
		case cand == "+" && strings.HasSuffix(rest, "+"),
			cand == "-" && strings.HasSuffix(rest, "-"),
			cand == ">" && strings.HasSuffix(rest, "-"):
			return "", "", false
		}
		return cand, strings.TrimSpace(rest), true
	}
	return "", "", false
}
