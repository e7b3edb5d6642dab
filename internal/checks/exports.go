package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Containers whose children still sit at file scope.
var fileScopeContainers = []string{
	"preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef",
	"linkage_specification", "namespace_definition", "declaration_list",
}

// fileScope returns the nodes of the given kind that are declared at file
// scope, including those under conditional compilation and namespaces.
func fileScope(root *syntax.Node, kind string) []*syntax.Node {
	var out []*syntax.Node
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		for _, c := range n.Children {
			switch {
			case c.Kind == kind:
				out = append(out, c)
			case matches(c.Kind, fileScopeContainers):
				visit(c)
			}
		}
	}
	visit(root)
	return out
}

// checkExports limits the symbols a .c file exposes to the rest of the
// program.
func checkExports(f *File) []lint.Violation {
	if f.Ext() != ".c" {
		return nil
	}
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.ExportFun) {
		var names []string
		for _, fn := range f.Nodes.Get("function_definition") {
			if hasStorageClass(f, fn, "static") {
				continue
			}
			fd := innermostFunctionDeclarator(fn.ChildByField("declarator"))
			if fd == nil {
				continue
			}
			if name := functionName(f, fd); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > cfg.MaxFuncs {
			r.addf(lint.ExportFun, 0, 0, "%d exported functions (max %d): %s",
				len(names), cfg.MaxFuncs, strings.Join(names, ", "))
		}
	}

	if cfg.Enabled(lint.ExportOther) {
		var globals []*syntax.Node
		for _, decl := range fileScope(f.Root(), "declaration") {
			if declaresFunction(decl) {
				continue
			}
			if hasStorageClass(f, decl, "static") || hasStorageClass(f, decl, "extern") {
				continue
			}
			if globalName(decl) == nil {
				continue
			}
			globals = append(globals, decl)
		}
		if len(globals) > cfg.MaxGlobals {
			excess := globalName(globals[cfg.MaxGlobals])
			r.addf(lint.ExportOther, excess.Start.Row, excess.Start.Column,
				"%d exported globals (max %d): '%s' exceeds the limit",
				len(globals), cfg.MaxGlobals, f.Text(excess))
		}
	}

	return r.violations()
}

// declaresFunction reports whether any declarator of decl is a function
// prototype.
func declaresFunction(decl *syntax.Node) bool {
	for _, d := range decl.ChildrenByField("declarator") {
		if isPrototype(innermostFunctionDeclarator(d)) {
			return true
		}
	}
	return false
}

// globalName returns the identifier of the first declared variable, or nil
// for declarations that only define a type.
func globalName(decl *syntax.Node) *syntax.Node {
	for _, d := range decl.ChildrenByField("declarator") {
		if id := d.FindFirst("identifier"); id != nil {
			return id
		}
	}
	return nil
}
