//go:build cgo

package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newFile parses src as the language of path. C++ files get the C++
// configuration the checker would apply.
func newFile(t *testing.T, path, src string, cfg config.Config) *File {
	t.Helper()
	lang, ok := syntax.FromPath(path)
	require.True(t, ok, "unsupported path %s", path)
	if lang == syntax.LangCXX {
		cfg = cfg.WithCXX()
	}
	root, err := syntax.Parse([]byte(src), lang)
	require.NoError(t, err)
	return NewFile(path, lang, []byte(src), root, cfg)
}

// run checks src with the default configuration.
func run(t *testing.T, path, src string) []lint.Violation {
	t.Helper()
	return Run(newFile(t, path, src, config.Default()))
}

// withRule returns the violations of one rule.
func withRule(vs []lint.Violation, id lint.RuleID) []lint.Violation {
	var out []lint.Violation
	for _, v := range vs {
		if v.Rule == id.String() {
			out = append(out, v)
		}
	}
	return out
}

// lines joins its arguments with newlines and adds the final one.
func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

// ---------------------------------------------------------------------------
// Engine properties
// ---------------------------------------------------------------------------

// pathological inputs that trip a naive scanner.
var corpus = []struct {
	path string
	src  string
}{
	{"main.c", lines(
		"#include <stdio.h>",
		"int counter, other;",
		"int total;",
		"void f() {",
		"    char c = '{';",
		"    int arr[n];",
		"    while (c);",
		"    goto end;",
		"end:",
		"    printf(\"} %d\\n\", (int)c);  ",
		"}",
		"",
		"",
		"  #define X 1",
		"#endif",
		"asm(\"nop\");",
		"int g(int a, int b, int c, int d, int e) { return a; } // <%",
	)},
	{"broken.h", "int f(\r\n"},
	{"widget.cpp", lines(
		"#include \"zeta.h\"",
		"#include <stdio.h>",
		"#include \"widget.hh\"",
		"extern \"C\" int c_api(void);",
		"const int kMax = 10;",
		"namespace Outer {",
		"class my_widget {",
		"public:",
		"    my_widget(int x);",
		"    my_widget& operator=(const my_widget &o) { return o; }",
		"    bool operator ,(int) const;",
		"};",
		"enum Color { RED };",
		"int f(void) {",
		"    int *p = (int *)malloc(4);",
		"    if (p == NULL) throw (42);",
		"    switch (kMax) { case 1 : break; }",
		"    try {} catch (int e) {}",
		"    int x = 1 +",
		"        2;",
		"    return x;",
		"}",
		"}",
	)},
}

func TestRun_DisabledRuleNeverFires(t *testing.T) {
	for _, c := range corpus {
		for _, r := range lint.All() {
			f := newFile(t, c.path, c.src, config.Default())
			f.Config = f.Config.With(r.ID, false)

			for _, v := range Run(f) {
				assert.NotEqual(t, r.Name, v.Rule, "%s: disabled rule fired: %s", c.path, v)
			}
		}
	}
}

func TestRun_AllDisabled(t *testing.T) {
	for _, c := range corpus {
		f := newFile(t, c.path, c.src, config.Default())
		f.Config.Rules = [lint.NumRules]bool{}
		assert.Empty(t, Run(f), c.path)
	}
}

func TestRun_Idempotent(t *testing.T) {
	for _, c := range corpus {
		first := run(t, c.path, c.src)
		second := run(t, c.path, c.src)
		assert.Equal(t, first, second, c.path)
	}
}

func TestRun_CorpusFires(t *testing.T) {
	c := run(t, "main.c", corpus[0].src)
	for _, id := range []lint.RuleID{
		lint.Braces, lint.FunProtoVoid, lint.FunArgCount, lint.ExportOther,
		lint.CppMark, lint.CppIf, lint.CppDigraphs, lint.DeclSingle, lint.DeclVLA,
		lint.StatAsm, lint.CtrlEmpty, lint.KeywordGoto, lint.Cast,
		lint.LinesEmpty, lint.FileTrailing,
	} {
		assert.NotEmpty(t, withRule(c, id), id.String())
	}

	cxx := run(t, "widget.cpp", corpus[2].src)
	for _, id := range []lint.RuleID{
		lint.FileExt, lint.CppIncludeFiletype, lint.CppIncludeOrder, lint.CppConstexpr,
		lint.GlobalCasts, lint.GlobalNoMalloc, lint.GlobalNullptr, lint.CExtern, lint.CHeaders,
		lint.NamingClass, lint.NamingNamespace, lint.DeclCtorExplicit, lint.CtrlSwitch,
		lint.CtrlSwitchPadding, lint.ErrThrowParen, lint.ErrThrowCatch, lint.ExpPadding,
		lint.ExpLinebreak, lint.FunProtoVoidCXX, lint.OpAssign, lint.OpOverload, lint.EnumClass,
	} {
		assert.NotEmpty(t, withRule(cxx, id), id.String())
	}
	assert.Empty(t, withRule(cxx, lint.Cast), "C-only rule in C++ file")
	assert.Empty(t, withRule(cxx, lint.ExportOther))
}

func TestRun_ViolationShape(t *testing.T) {
	vs := run(t, "main.c", corpus[0].src)
	require.NotEmpty(t, vs)
	for _, v := range vs {
		assert.Equal(t, "main.c", v.File)
		assert.GreaterOrEqual(t, v.Line, 1, v.String())
		assert.GreaterOrEqual(t, v.Column, 0, v.String())
		id, ok := lint.ParseRuleID(v.Rule)
		require.True(t, ok, v.Rule)
		assert.NotEqual(t, lint.Format, id, "format belongs to the checker")
	}
}

// ---------------------------------------------------------------------------
// Dispatch table
// ---------------------------------------------------------------------------

func TestChecks_CoverEveryRule(t *testing.T) {
	covered := make(map[lint.RuleID]bool)
	for _, c := range Checks() {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Langs, c.Name)
		require.NotNil(t, c.Run, c.Name)
		for _, id := range c.Rules {
			assert.False(t, covered[id], "%s listed twice", id)
			covered[id] = true
		}
	}
	for _, r := range lint.All() {
		if r.ID == lint.Format {
			assert.False(t, covered[r.ID])
			continue
		}
		assert.True(t, covered[r.ID], "no check emits %s", r.Name)
	}
}

func TestFor_Language(t *testing.T) {
	names := func(cs []Check) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}
	c := names(For(syntax.LangC))
	cxx := names(For(syntax.LangCXX))

	assert.Contains(t, c, "exports")
	assert.NotContains(t, c, "cxx-linebreak")
	assert.Contains(t, cxx, "cxx-linebreak")
	assert.NotContains(t, cxx, "exports")
	assert.Contains(t, cxx, "braces")
}

// ---------------------------------------------------------------------------
// File helpers
// ---------------------------------------------------------------------------

func TestMasked_BlanksCommentsAndLiterals(t *testing.T) {
	src := lines(
		`char *s = "{ }"; /* { */`,
		`char c = '}';`,
		`// {`,
	)
	f := newFile(t, "m.c", src, config.Default())
	masked := f.Masked()

	require.Len(t, masked, len(f.Lines))
	for i := range masked {
		assert.Len(t, masked[i], len(f.Lines[i]), "line %d", i)
		assert.NotContains(t, masked[i], "{", "line %d", i)
		assert.NotContains(t, masked[i], "}", "line %d", i)
	}
	assert.True(t, strings.HasPrefix(masked[0], `char *s = "`))
}

func TestIsAssignment(t *testing.T) {
	assert.True(t, isAssignment("int a[] ="))
	assert.True(t, isAssignment("x +="))
	assert.False(t, isAssignment("if (a == b)"))
	assert.False(t, isAssignment("if (a != b)"))
	assert.False(t, isAssignment("while (a <= b)"))
	assert.False(t, isAssignment("struct s"))
}

func TestIsUpperName(t *testing.T) {
	assert.True(t, isUpperName("N"))
	assert.True(t, isUpperName("BUF_SIZE2"))
	assert.False(t, isUpperName("n"))
	assert.False(t, isUpperName("Size"))
	assert.False(t, isUpperName("_"))
}
