package checks

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// checkFileExt flags the C++ extensions the style replaces.
func checkFileExt(f *File) []lint.Violation {
	r := newReporter(f)
	switch f.Ext() {
	case ".cpp":
		r.add(lint.FileExt, 0, 0, "Use '.cc' extension instead of '.cpp'")
	case ".hpp":
		r.add(lint.FileExt, 0, 0, "Use '.hh' (or '.hxx' for templates) instead of '.hpp'")
	}
	return r.violations()
}

// include is one #include directive.
type include struct {
	row   int
	group string // "self", "system" or "local"
	name  string
}

func (f *File) includes() []include {
	base := stem(f.Path)
	var out []include
	for _, inc := range f.Nodes.Get("preproc_include") {
		path := inc.ChildByField("path")
		if path == nil {
			continue
		}
		switch path.Kind {
		case "system_lib_string":
			out = append(out, include{row: inc.Start.Row, group: "system", name: f.Text(path)})
		case "string_literal":
			name := strings.Trim(f.Text(path), `"`)
			group := "local"
			if stem(name) == base {
				group = "self"
			}
			out = append(out, include{row: inc.Start.Row, group: group, name: name})
		}
	}
	return out
}

// stem returns the base name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func hasHeaderExt(name string) bool {
	return strings.HasSuffix(name, ".hh") || strings.HasSuffix(name, ".hxx")
}

// checkCXXPreprocessor covers #pragma once, included file types, include
// ordering, and constexpr candidates.
func checkCXXPreprocessor(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.CppPragmaOnce) && f.IsHeader() {
		found := false
		for _, line := range f.Lines {
			if strings.TrimSpace(line) == "#pragma once" {
				found = true
				break
			}
		}
		if !found {
			r.add(lint.CppPragmaOnce, 0, 0, "Use #pragma once instead of include guards")
		}
	}

	if cfg.Enabled(lint.CppIncludeFiletype) {
		for _, inc := range f.includes() {
			if inc.group != "system" && !hasHeaderExt(inc.name) {
				r.addf(lint.CppIncludeFiletype, inc.row, 0,
					"Included file '%s' should have .hh or .hxx extension", inc.name)
			}
		}
	}

	if cfg.Enabled(lint.CppIncludeOrder) {
		checkIncludeOrder(f, r)
	}

	if cfg.Enabled(lint.CppConstexpr) {
		for _, decl := range fileScope(f.Root(), "declaration") {
			if isLiteralConst(f, decl) {
				r.at(lint.CppConstexpr, decl, "Consider using constexpr for compile-time constant")
			}
		}
	}

	return r.violations()
}

var constexprLiterals = []string{"number_literal", "string_literal", "char_literal", "true", "false"}

// isLiteralConst reports whether decl is a const declaration initialized
// with a plain literal.
func isLiteralConst(f *File, decl *syntax.Node) bool {
	isConst := false
	for _, q := range decl.ChildrenOfKind("type_qualifier") {
		switch f.Text(q) {
		case "const":
			isConst = true
		case "constexpr", "consteval", "constinit":
			return false
		}
	}
	if !isConst {
		return false
	}
	for _, d := range decl.ChildrenByField("declarator") {
		if d.Kind != "init_declarator" {
			continue
		}
		if v := d.ChildByField("value"); v != nil && matches(v.Kind, constexprLiterals) {
			return true
		}
	}
	return false
}

// checkIncludeOrder wants the same-name header first, system headers
// before local ones, each group sorted, and a blank line between groups.
// A .hh including its own .hxx last is allowed.
func checkIncludeOrder(f *File, r *reporter) {
	incs := f.includes()
	if len(incs) == 0 {
		return
	}

	var self *include
	var firstOther *include
	for i := range incs {
		if incs[i].group == "self" && self == nil {
			self = &incs[i]
		}
		if incs[i].group != "self" && firstOther == nil {
			firstOther = &incs[i]
		}
	}
	if self != nil && firstOther != nil && self.row > firstOther.row {
		trailingImpl := f.Ext() == ".hh" && strings.HasSuffix(self.name, ".hxx")
		if !trailingImpl {
			r.add(lint.CppIncludeOrder, self.row, 0, "Same-name header should be included first")
		}
	}

outer:
	for i, inc := range incs {
		if inc.group != "local" {
			continue
		}
		for _, later := range incs[i+1:] {
			if later.group == "system" {
				r.add(lint.CppIncludeOrder, inc.row, 0, "System includes should come before local includes")
				break outer
			}
		}
	}

	// One report per group.
	reported := make(map[string]bool)
	last := make(map[string]include)
	for _, inc := range incs {
		prev, ok := last[inc.group]
		last[inc.group] = inc
		if !ok || reported[inc.group] {
			continue
		}
		if strings.ToLower(inc.name) < strings.ToLower(prev.name) {
			reported[inc.group] = true
			r.addSeverity(lint.CppIncludeOrder, lint.Minor, inc.row, 0,
				"Includes not in alphabetical order: '"+inc.name+"' before '"+prev.name+"'")
		}
	}

	for i := 1; i < len(incs); i++ {
		prev, cur := incs[i-1], incs[i]
		if prev.group == cur.group {
			continue
		}
		separated := false
		for row := prev.row + 1; row < cur.row; row++ {
			if isBlank(f.Line(row)) {
				separated = true
				break
			}
		}
		if !separated {
			r.addSeverity(lint.CppIncludeOrder, lint.Minor, cur.row, 0,
				"Include groups should be separated by a blank line")
		}
	}
}
