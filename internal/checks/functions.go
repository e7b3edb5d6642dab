package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Declarator kinds that wrap a function declarator, e.g. the pointer in
// "int *f(void)" or the parentheses in "int (*f(void))(int)".
var wrapperDeclarators = []string{
	"pointer_declarator",
	"array_declarator",
	"parenthesized_declarator",
	"reference_declarator",
	"attributed_declarator",
}

// Name kinds a function declarator carries when it declares a function
// rather than a function pointer.
var functionNames = []string{
	"identifier",
	"field_identifier",
	"qualified_identifier",
	"destructor_name",
	"operator_name",
	"template_function",
}

// innermostFunctionDeclarator returns the function declarator that names
// the function, looking through wrappers. For "int (*f(void))(int)" that
// is f(void), not the outer (int) list.
func innermostFunctionDeclarator(n *syntax.Node) *syntax.Node {
	if n == nil {
		return nil
	}
	if n.Kind == "function_declarator" {
		for _, c := range n.Children {
			if inner := innermostFunctionDeclarator(c); inner != nil {
				return inner
			}
		}
		return n
	}
	if !matches(n.Kind, wrapperDeclarators) {
		return nil
	}
	for _, c := range n.Children {
		if inner := innermostFunctionDeclarator(c); inner != nil {
			return inner
		}
	}
	return nil
}

// isPrototype reports whether fd declares a function, as opposed to a
// variable of function pointer type.
func isPrototype(fd *syntax.Node) bool {
	if fd == nil {
		return false
	}
	name := fd.ChildByField("declarator")
	return name != nil && matches(name.Kind, functionNames)
}

func matches(kind string, kinds []string) bool {
	for _, k := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// functionName returns the declared name, e.g. "main" or "Foo::bar".
func functionName(f *File, fd *syntax.Node) string {
	return f.Text(fd.ChildByField("declarator"))
}

// parameters returns the declared parameters of fd; "..." is not one.
func parameters(fd *syntax.Node) []*syntax.Node {
	list := fd.ChildByField("parameters")
	if list == nil {
		return nil
	}
	return list.ChildrenOfKind("parameter_declaration", "optional_parameter_declaration")
}

// hasStorageClass reports whether decl carries the given storage class.
func hasStorageClass(f *File, decl *syntax.Node, class string) bool {
	for _, c := range decl.ChildrenOfKind("storage_class_specifier") {
		if f.Text(c) == class {
			return true
		}
	}
	return false
}

// countFunctionLines counts the body lines that are not blank, not a lone
// brace, and not a comment line.
func countFunctionLines(f *File, body *syntax.Node) int {
	count := 0
	for row := body.Start.Row; row <= body.End.Row && row < len(f.Lines); row++ {
		s := strings.TrimSpace(f.Lines[row])
		if s == "" || s == "{" || s == "}" {
			continue
		}
		if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*") || strings.HasPrefix(s, "*") {
			continue
		}
		count++
	}
	return count
}

// checkFunctions covers the parameter list spelling, the parameter count
// and the body length of every definition, plus header prototypes.
func checkFunctions(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config
	checkVoid := f.Lang == syntax.LangC && cfg.Enabled(lint.FunProtoVoid)

	checkSignature := func(fd *syntax.Node, row int) {
		name := functionName(f, fd)
		params := parameters(fd)
		if checkVoid && len(params) == 0 && stripSpace(f.Text(fd.ChildByField("parameters"))) == "()" {
			r.addf(lint.FunProtoVoid, row, 0, "'%s' should use (void) for empty params", name)
		}
		if len(params) > cfg.MaxArgs {
			r.addf(lint.FunArgCount, row, 0, "'%s' has %d args (max %d)", name, len(params), cfg.MaxArgs)
		}
	}

	for _, fn := range f.Nodes.Get("function_definition") {
		fd := innermostFunctionDeclarator(fn.ChildByField("declarator"))
		if fd == nil || functionName(f, fd) == "" {
			continue
		}
		checkSignature(fd, fn.Start.Row)

		body := fn.ChildByField("body")
		if body == nil || body.Kind != "compound_statement" {
			continue
		}
		if n := countFunctionLines(f, body); n > cfg.MaxLines {
			r.addf(lint.FunLength, fn.Start.Row, 0, "Function has %d lines (max %d)", n, cfg.MaxLines)
		}
	}

	if f.IsHeader() {
		for _, decl := range f.Nodes.Get("declaration", "field_declaration") {
			for _, d := range decl.ChildrenByField("declarator") {
				fd := innermostFunctionDeclarator(d)
				if !isPrototype(fd) {
					continue
				}
				checkSignature(fd, fd.Start.Row)
			}
		}
	}

	return r.violations()
}
