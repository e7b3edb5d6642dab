package checks

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

var (
	camelCase      = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	lowerNamespace = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// checkNaming covers class and namespace naming and the namespace
// closing comment.
func checkNaming(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.NamingClass) {
		for _, n := range f.Nodes.Get("class_specifier", "struct_specifier") {
			name := n.ChildByField("name")
			if n.ChildByField("body") == nil || name == nil || name.Kind != "type_identifier" {
				continue
			}
			if text := f.Text(name); !camelCase.MatchString(text) {
				r.at(lint.NamingClass, name, "Class/struct '"+text+"' should be CamelCase")
			}
		}
	}

	if cfg.Enabled(lint.NamingNamespace) {
		for _, ns := range f.Nodes.Get("namespace_definition") {
			checkNamespace(f, r, ns)
		}
	}

	return r.violations()
}

func checkNamespace(f *File, r *reporter, ns *syntax.Node) {
	name := ns.ChildByField("name")
	if name == nil {
		return
	}
	full := f.Text(name)

	// "namespace a::b" checks each component.
	parts := []*syntax.Node{name}
	if name.Kind == "nested_namespace_specifier" {
		parts = name.Find("namespace_identifier")
	}
	for _, p := range parts {
		if text := f.Text(p); !lowerNamespace.MatchString(text) {
			r.at(lint.NamingNamespace, p, "Namespace '"+text+"' should be lowercase")
		}
	}

	if ns.ChildByField("body") == nil {
		return
	}
	row := ns.End.Row
	closing := strings.TrimSpace(f.Line(row))
	if strings.HasPrefix(closing, "}") && !strings.Contains(closing, "// namespace "+full) {
		r.addSeverity(lint.NamingNamespace, lint.Minor, row, 0,
			"Closing brace should have comment '// namespace "+full+"'")
	}
}
