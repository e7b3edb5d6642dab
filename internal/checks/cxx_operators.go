package checks

import (
	"strings"
	"unicode"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

var forbiddenOverloads = map[string]bool{
	"operator,":  true,
	"operator||": true,
	"operator&&": true,
}

// checkOperators covers operator spelling, assignment operators and the
// overloads the style forbids.
func checkOperators(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	for _, op := range f.Nodes.Get("operator_name") {
		fd := declaringFunction(op)
		if fd == nil {
			continue
		}
		text := f.Text(op)
		symbol := stripSpace(text)

		if cfg.Enabled(lint.ExpPadding) && hasOperatorPadding(text) {
			r.at(lint.ExpPadding, op, "No space between 'operator' and the operator symbol")
		}

		switch {
		case forbiddenOverloads[symbol]:
			r.addf(lint.OpOverload, op.Start.Row, op.Start.Column, "Don't overload %s", symbol)
		case symbol == "operator&" && isUnaryOverload(op, fd):
			r.addf(lint.OpOverloadBinand, op.Start.Row, op.Start.Column, "Don't overload unary %s", symbol)
		}
	}

	if cfg.Enabled(lint.OpAssign) {
		for _, fn := range f.Nodes.Get("function_definition") {
			checkAssignOperator(f, r, fn)
		}
	}

	return r.violations()
}

// declaringFunction returns the function declarator op names, or nil when
// op is used some other way, e.g. in an explicit call.
func declaringFunction(op *syntax.Node) *syntax.Node {
	fd := op.Ancestor("function_declarator")
	if fd == nil {
		return nil
	}
	name := fd.ChildByField("declarator")
	if name == nil || op.StartByte < name.StartByte || op.EndByte > name.EndByte {
		return nil
	}
	return fd
}

// hasOperatorPadding reports whitespace between "operator" and a symbol.
// Keyword operators (new, delete, co_await) need the space, and literal
// operators are spelled either way.
func hasOperatorPadding(text string) bool {
	rest := strings.TrimPrefix(text, "operator")
	if !strings.ContainsAny(rest, " \t\n") {
		return false
	}
	sym := strings.TrimSpace(rest)
	if sym == "" || strings.HasPrefix(sym, `""`) {
		return false
	}
	first := []rune(sym)[0]
	return !unicode.IsLetter(first) && first != '_'
}

// isUnaryOverload tells the address-of operator from binary AND by arity:
// members take no parameter, free functions and friends take one.
func isUnaryOverload(op, fd *syntax.Node) bool {
	n := len(parameters(fd))
	member := false
	switch {
	case fd.Ancestor("friend_declaration") != nil:
	case op.Parent != nil && op.Parent.Kind == "qualified_identifier":
		member = true
	case fd.Ancestor("field_declaration_list") != nil:
		member = true
	}
	if member {
		return n == 0
	}
	return n == 1
}

// checkAssignOperator wants operator= to return a reference to its class
// and to end with "return *this". Defaulted and deleted ones have no body
// to check.
func checkAssignOperator(f *File, r *reporter, fn *syntax.Node) {
	decl := fn.ChildByField("declarator")
	fd := innermostFunctionDeclarator(decl)
	if fd == nil {
		return
	}
	name := fd.ChildByField("declarator")
	if name == nil {
		return
	}
	op := name.FindFirst("operator_name")
	if op == nil || stripSpace(f.Text(op)) != "operator=" {
		return
	}
	body := fn.ChildByField("body")
	if body == nil || body.Kind != "compound_statement" {
		return
	}

	class := enclosingClass(f, fn, name)
	want := "Class&"
	if class != "" {
		want = class + "&"
	}
	if decl.Kind != "reference_declarator" {
		r.at(lint.OpAssign, fn, "Assignment operator should return "+want)
		return
	}
	if ret := baseTypeName(f, fn.ChildByField("type")); class != "" && ret != "" && ret != class {
		r.at(lint.OpAssign, fn, "Assignment operator should return "+want)
		return
	}
	if !strings.Contains(stripSpace(f.Text(body)), "return*this") {
		r.at(lint.OpAssign, fn, "Assignment operator should return *this")
	}
}

// enclosingClass names the class fn belongs to, from the surrounding class
// body or from the "Foo::" qualifier of an out-of-class definition.
func enclosingClass(f *File, fn, name *syntax.Node) string {
	if cls := fn.Ancestor("class_specifier", "struct_specifier"); cls != nil {
		return baseTypeName(f, cls.ChildByField("name"))
	}
	if name.Kind == "qualified_identifier" {
		return baseTypeName(f, name.ChildByField("scope"))
	}
	return ""
}

// baseTypeName strips qualifiers and template arguments from a type name,
// so "ns::Vec<T>" gives "Vec".
func baseTypeName(f *File, t *syntax.Node) string {
	for t != nil {
		switch t.Kind {
		case "type_identifier", "namespace_identifier", "identifier":
			return f.Text(t)
		case "template_type":
			t = t.ChildByField("name")
		case "qualified_identifier":
			t = t.ChildByField("name")
		default:
			return ""
		}
	}
	return ""
}
