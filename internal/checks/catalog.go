package checks

import (
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Check is one entry of the dispatch table: a function, the languages it
// runs for, and the rules it can emit.
type Check struct {
	Name     string
	Category lint.Category
	Langs    []syntax.Language
	Rules    []lint.RuleID
	Run      func(*File) []lint.Violation
}

var (
	cOnly   = []syntax.Language{syntax.LangC}
	cxxOnly = []syntax.Language{syntax.LangCXX}
	both    = []syntax.Language{syntax.LangC, syntax.LangCXX}
)

// registry is evaluated in order; violations keep that order.
var registry = []Check{
	{
		Name: "file-format", Category: lint.CategoryFile, Langs: both,
		Rules: []lint.RuleID{lint.FileDOS, lint.FileTerminate, lint.FileSpurious, lint.FileTrailing, lint.LinesEmpty},
		Run:   checkFileFormat,
	},
	{
		Name: "file-ext", Category: lint.CategoryFile, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.FileExt},
		Run:   checkFileExt,
	},
	{
		Name: "braces", Category: lint.CategoryBraces, Langs: both,
		Rules: []lint.RuleID{lint.Braces},
		Run:   checkBraces,
	},
	{
		Name: "functions", Category: lint.CategoryFunctions, Langs: both,
		Rules: []lint.RuleID{lint.FunProtoVoid, lint.FunArgCount, lint.FunLength},
		Run:   checkFunctions,
	},
	{
		Name: "exports", Category: lint.CategoryExports, Langs: cOnly,
		Rules: []lint.RuleID{lint.ExportFun, lint.ExportOther},
		Run:   checkExports,
	},
	{
		Name: "preprocessor", Category: lint.CategoryPreprocessor, Langs: both,
		Rules: []lint.RuleID{lint.CppGuard, lint.CppMark, lint.CppIf, lint.CppDigraphs},
		Run:   checkPreprocessor,
	},
	{
		Name: "declarations", Category: lint.CategoryDeclarations, Langs: both,
		Rules: []lint.RuleID{lint.DeclSingle, lint.DeclVLA},
		Run:   checkDeclarations,
	},
	{
		Name: "control", Category: lint.CategoryControl, Langs: both,
		Rules: []lint.RuleID{lint.StatAsm, lint.CtrlEmpty, lint.KeywordGoto, lint.Cast},
		Run:   checkControl,
	},
	{
		Name: "cxx-preprocessor", Category: lint.CategoryPreprocessor, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.CppPragmaOnce, lint.CppIncludeFiletype, lint.CppIncludeOrder, lint.CppConstexpr},
		Run:   checkCXXPreprocessor,
	},
	{
		Name: "cxx-globals", Category: lint.CategoryGlobals, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.GlobalCasts, lint.GlobalNoMalloc, lint.GlobalNullptr, lint.CExtern, lint.CHeaders, lint.CStdFunctions},
		Run:   checkCXXGlobals,
	},
	{
		Name: "cxx-naming", Category: lint.CategoryNaming, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.NamingClass, lint.NamingNamespace},
		Run:   checkNaming,
	},
	{
		Name: "cxx-declarations", Category: lint.CategoryDeclarations, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.DeclRef, lint.DeclPoint, lint.DeclCtorExplicit},
		Run:   checkCXXDeclarations,
	},
	{
		Name: "cxx-switch", Category: lint.CategoryControl, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.CtrlSwitch, lint.CtrlSwitchPadding},
		Run:   checkSwitch,
	},
	{
		Name: "cxx-blocks", Category: lint.CategoryWriting, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.BracesEmpty, lint.BracesSingleExp},
		Run:   checkBlocks,
	},
	{
		Name: "cxx-exceptions", Category: lint.CategoryWriting, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.ErrThrow, lint.ErrThrowParen, lint.ErrThrowCatch},
		Run:   checkExceptions,
	},
	{
		Name: "cxx-operators", Category: lint.CategoryWriting, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.ExpPadding, lint.OpAssign, lint.OpOverload, lint.OpOverloadBinand},
		Run:   checkOperators,
	},
	{
		Name: "cxx-decl-style", Category: lint.CategoryWriting, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.FunProtoVoidCXX, lint.EnumClass},
		Run:   checkCXXDeclStyle,
	},
	{
		Name: "cxx-linebreak", Category: lint.CategoryWriting, Langs: cxxOnly,
		Rules: []lint.RuleID{lint.ExpLinebreak},
		Run:   checkLinebreak,
	},
}

// Checks returns the dispatch table in evaluation order.
func Checks() []Check {
	return append([]Check(nil), registry...)
}

// For returns the checks that apply to lang.
func For(lang syntax.Language) []Check {
	var out []Check
	for _, c := range registry {
		if c.Applies(lang) {
			out = append(out, c)
		}
	}
	return out
}

// Applies reports whether c runs for lang.
func (c Check) Applies(lang syntax.Language) bool {
	for _, l := range c.Langs {
		if l == lang {
			return true
		}
	}
	return false
}

// Run applies every check for f's language and concatenates the results.
// Checks whose rules are all disabled are skipped.
func Run(f *File) []lint.Violation {
	var out []lint.Violation
	for _, c := range For(f.Lang) {
		if !f.Config.AnyEnabled(c.Rules...) {
			continue
		}
		out = append(out, c.Run(f)...)
	}
	return out
}
