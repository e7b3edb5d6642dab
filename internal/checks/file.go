// Package checks holds the rule engine: one check function per rule
// family, each reading the parsed tree, the raw lines, or both.
package checks

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// File is everything a check needs to know about one source file. It is
// read-only once built; the masked view is computed on first use.
type File struct {
	Path   string
	Lang   syntax.Language
	Src    []byte
	Lines  []string // Src split on "\n"; a trailing newline yields a final ""
	Nodes  *syntax.NodeCache
	Config config.Config

	maskOnce sync.Once
	masked   []string
}

// NewFile wraps a parsed source file.
func NewFile(path string, lang syntax.Language, src []byte, root *syntax.Node, cfg config.Config) *File {
	return &File{
		Path:   path,
		Lang:   lang,
		Src:    src,
		Lines:  strings.Split(string(src), "\n"),
		Nodes:  syntax.NewNodeCache(root),
		Config: cfg,
	}
}

// Root returns the syntax tree root.
func (f *File) Root() *syntax.Node {
	return f.Nodes.Root()
}

// Text returns the source covered by n.
func (f *File) Text(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	return n.Text(f.Src)
}

// Line returns the 0-based row, or "" when out of range.
func (f *File) Line(row int) string {
	if row < 0 || row >= len(f.Lines) {
		return ""
	}
	return f.Lines[row]
}

// Ext returns the lowercase file extension including the dot.
func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// IsHeader reports whether the file is a header of either language.
func (f *File) IsHeader() bool {
	switch f.Ext() {
	case ".h", ".hh", ".hxx", ".hpp":
		return true
	}
	return false
}

// maskedKinds are blanked out in the masked view. Comments lose every
// byte; literals keep their delimiters.
var maskedKinds = []string{"comment", "string_literal", "char_literal", "raw_string_literal"}

// Masked returns the lines with comments and the contents of string and
// character literals replaced by spaces. Byte offsets and line count are
// the same as Lines, so columns found on a masked line apply to the raw
// line.
func (f *File) Masked() []string {
	f.maskOnce.Do(func() {
		buf := bytes.Clone(f.Src)
		for _, n := range f.Nodes.Get(maskedKinds...) {
			start, end := n.StartByte, n.EndByte
			if n.Kind != "comment" {
				start, end = start+1, end-1
			}
			blank(buf, start, end)
		}
		f.masked = strings.Split(string(buf), "\n")
	})
	return f.masked
}

func blank(buf []byte, start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(buf) {
		end = len(buf)
	}
	for i := start; i < end; i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

// reporter collects violations for one check run. Violations for disabled
// rules are dropped here, so gating holds even if a check forgets to test.
type reporter struct {
	f   *File
	out []lint.Violation
}

func newReporter(f *File) *reporter {
	return &reporter{f: f}
}

// add records a violation at a 0-based row and column with the rule's
// catalog severity.
func (r *reporter) add(id lint.RuleID, row, col int, msg string) {
	r.addSeverity(id, lint.Lookup(id).Severity, row, col, msg)
}

func (r *reporter) addf(id lint.RuleID, row, col int, format string, args ...any) {
	r.add(id, row, col, fmt.Sprintf(format, args...))
}

func (r *reporter) addSeverity(id lint.RuleID, sev lint.Severity, row, col int, msg string) {
	if !r.f.Config.Enabled(id) {
		return
	}
	r.out = append(r.out, lint.Violation{
		File:        r.f.Path,
		Line:        row + 1,
		Column:      col,
		Rule:        id.String(),
		Message:     msg,
		Severity:    sev,
		LineContent: r.f.Line(row),
	})
}

// at is add for a node's start position.
func (r *reporter) at(id lint.RuleID, n *syntax.Node, msg string) {
	r.add(id, n.Start.Row, n.Start.Column, msg)
}

func (r *reporter) violations() []lint.Violation {
	return r.out
}

// isBlank reports whether s holds only whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// trimRight strips trailing whitespace the way the line rules see it.
func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// indent returns the byte length of the leading whitespace of s.
func indent(s string) int {
	return len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
}

// stripSpace removes every whitespace rune from s.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
