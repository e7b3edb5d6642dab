package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Statements that need braces when they are a whole body.
var singleStatements = []string{
	"expression_statement", "return_statement", "break_statement",
	"continue_statement", "throw_statement",
}

var thrownLiterals = []string{
	"number_literal", "string_literal", "char_literal", "concatenated_string",
	"raw_string_literal", "user_defined_literal", "true", "false", "null", "nullptr",
}

// checkBlocks covers empty function bodies and unbraced single-statement
// bodies.
func checkBlocks(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.BracesEmpty) {
		for _, fn := range f.Nodes.Get("function_definition") {
			body := fn.ChildByField("body")
			if body == nil || body.Kind != "compound_statement" || !isEmptyBlock(body) {
				continue
			}
			switch {
			case body.Start.Row != body.End.Row:
				r.at(lint.BracesEmpty, body, "Empty body should use {} on the same line")
			case f.Text(body) != "{}":
				r.at(lint.BracesEmpty, body, "Empty body should be {} with no space")
			}
		}
	}

	if cfg.Enabled(lint.BracesSingleExp) {
		for _, n := range f.Nodes.Get("if_statement", "while_statement", "for_statement", "for_range_loop", "do_statement", "else_clause") {
			var body *syntax.Node
			switch n.Kind {
			case "if_statement":
				body = n.ChildByField("consequence")
			case "else_clause":
				if len(n.Children) > 0 {
					body = n.Children[len(n.Children)-1]
				}
			default:
				body = n.ChildByField("body")
			}
			if body == nil || !matches(body.Kind, singleStatements) || isEmptyStatement(body) {
				continue
			}
			r.at(lint.BracesSingleExp, body, "Single-expression block should have braces")
		}
	}

	return r.violations()
}

func isEmptyBlock(body *syntax.Node) bool {
	for _, c := range body.Children {
		switch c.Kind {
		case "{", "}", "comment":
		default:
			return false
		}
	}
	return true
}

// checkExceptions covers what is thrown and how it is caught.
func checkExceptions(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.AnyEnabled(lint.ErrThrow, lint.ErrThrowParen) {
		for _, n := range f.Nodes.Get("throw_statement") {
			for _, c := range n.Children {
				switch {
				case matches(c.Kind, thrownLiterals):
					r.at(lint.ErrThrow, n, "Don't throw literals, throw exception objects")
				case c.Kind == "new_expression":
					r.at(lint.ErrThrow, n, "Don't throw with new, throw by value")
				case c.Kind == "parenthesized_expression":
					r.at(lint.ErrThrowParen, n, "No parentheses after throw")
				}
			}
		}
	}

	if cfg.Enabled(lint.ErrThrowCatch) {
		for _, n := range f.Nodes.Get("catch_clause") {
			params := n.ChildByField("parameters")
			if params == nil {
				continue
			}
			for _, p := range params.ChildrenOfKind("parameter_declaration") {
				if text := f.Text(p); !strings.Contains(text, "&") && text != "..." {
					r.at(lint.ErrThrowCatch, p, "Catch exceptions by reference")
				}
			}
		}
	}

	return r.violations()
}

// checkCXXDeclStyle covers (void) parameter lists and plain enums.
func checkCXXDeclStyle(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.FunProtoVoidCXX) {
		for _, fd := range f.Nodes.Get("function_declarator") {
			params := parameters(fd)
			if len(params) != 1 || strings.TrimSpace(f.Text(params[0])) != "void" {
				continue
			}
			name := functionName(f, fd)
			if name == "" {
				name = "?"
			}
			r.addf(lint.FunProtoVoidCXX, fd.Start.Row, fd.Start.Column, "'%s' should use () not (void) in C++", name)
		}
	}

	if cfg.Enabled(lint.EnumClass) {
		for _, n := range f.Nodes.Get("enum_specifier") {
			if n.ChildByField("body") == nil || n.HasChild("class") || n.HasChild("struct") {
				continue
			}
			r.at(lint.EnumClass, n, "Prefer 'enum class' over plain 'enum'")
		}
	}

	return r.violations()
}
