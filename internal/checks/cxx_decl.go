package checks

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

var (
	refAfterSpace = regexp.MustCompile(`\w\s+&\w`)
	ptrAfterSpace = regexp.MustCompile(`\w\s+\*\w`)
)

// Words that make a line look like a declaration.
var typeKeywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true, "long": true,
	"short": true, "unsigned": true, "signed": true, "void": true, "bool": true,
	"auto": true, "const": true, "static": true, "volatile": true, "extern": true,
	"virtual": true, "inline": true, "explicit": true, "mutable": true,
}

// isDeclarationContext guesses whether a line declares something: a type
// keyword among the first three words, a capitalized first word, or a
// std:: qualified first word. Without it "a & b" or "x * y" would be
// reported.
func isDeclarationContext(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	for i := 0; i < len(words) && i < 3; i++ {
		if typeKeywords[words[i]] {
			return true
		}
	}
	first := words[0]
	if isAlpha(first) && unicode.IsUpper([]rune(first)[0]) {
		return true
	}
	return strings.HasPrefix(first, "std::")
}

func isAlpha(s string) bool {
	for _, c := range s {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return s != ""
}

// checkCXXDeclarations covers sigil placement and explicit constructors.
func checkCXXDeclarations(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.AnyEnabled(lint.DeclRef, lint.DeclPoint) {
		for i, m := range f.Masked() {
			s := strings.TrimSpace(m)
			if s == "" || strings.HasPrefix(s, "#") || !isDeclarationContext(m) {
				continue
			}
			for _, loc := range refAfterSpace.FindAllStringIndex(m, -1) {
				col := loc[0] + strings.IndexByte(m[loc[0]:loc[1]], '&')
				r.add(lint.DeclRef, i, col, "& should be next to type, not variable")
			}
			for _, loc := range ptrAfterSpace.FindAllStringIndex(m, -1) {
				col := loc[0] + strings.IndexByte(m[loc[0]:loc[1]], '*')
				r.add(lint.DeclPoint, i, col, "* should be next to type, not variable")
			}
		}
	}

	if cfg.Enabled(lint.DeclCtorExplicit) {
		for _, cls := range f.Nodes.Get("class_specifier", "struct_specifier") {
			checkExplicitCtors(f, r, cls)
		}
	}

	return r.violations()
}

var memberKinds = []string{"declaration", "field_declaration", "function_definition"}

func checkExplicitCtors(f *File, r *reporter, cls *syntax.Node) {
	name := cls.ChildByField("name")
	body := cls.ChildByField("body")
	if name == nil || body == nil || name.Kind != "type_identifier" {
		return
	}
	class := f.Text(name)

	for _, member := range classMembers(body) {
		if member.HasChild("explicit_function_specifier") {
			continue
		}
		fd := member.ChildByField("declarator")
		if fd == nil || fd.Kind != "function_declarator" || functionName(f, fd) != class {
			continue
		}
		params := parameters(fd)
		if len(params) != 1 || isCopyOrMove(f, params[0], class) {
			continue
		}
		r.addf(lint.DeclCtorExplicit, member.Start.Row, member.Start.Column,
			"Single-argument constructor '%s' should be explicit", class)
	}
}

// classMembers returns the member declarations of a class body, looking
// through member templates.
func classMembers(body *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range body.Children {
		switch {
		case c.Kind == "template_declaration":
			out = append(out, c.ChildrenOfKind(memberKinds...)...)
		case slices.Contains(memberKinds, c.Kind):
			out = append(out, c)
		}
	}
	return out
}

// isCopyOrMove reports whether param is a reference to class, including
// an instantiation of class when it is a template.
func isCopyOrMove(f *File, param *syntax.Node, class string) bool {
	d := param.ChildByField("declarator")
	if d == nil || (d.Kind != "reference_declarator" && d.Kind != "abstract_reference_declarator") {
		return false
	}
	t := param.ChildByField("type")
	if t == nil {
		return false
	}
	switch t.Kind {
	case "type_identifier":
		return f.Text(t) == class
	case "template_type":
		return f.Text(t.ChildByField("name")) == class
	}
	return false
}
