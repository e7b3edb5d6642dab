package lint

import (
	"fmt"
	"sort"
	"strings"
)

// RuleID identifies one checkable property. The zero value is a valid rule;
// use ParseRuleID to resolve dotted names.
type RuleID int

const (
	FileDOS RuleID = iota
	FileTerminate
	FileSpurious
	FileTrailing
	LinesEmpty
	Braces
	FunLength
	FunArgCount
	FunProtoVoid
	ExportFun
	ExportOther
	CppGuard
	CppMark
	CppIf
	CppDigraphs
	DeclSingle
	DeclVLA
	StatAsm
	CtrlEmpty
	KeywordGoto
	Cast
	Format

	FileExt
	CppPragmaOnce
	CppIncludeFiletype
	CppIncludeOrder
	CppConstexpr
	GlobalCasts
	GlobalNoMalloc
	GlobalNullptr
	CExtern
	CHeaders
	CStdFunctions
	NamingClass
	NamingNamespace
	DeclRef
	DeclPoint
	DeclCtorExplicit
	CtrlSwitch
	CtrlSwitchPadding
	BracesEmpty
	BracesSingleExp
	ErrThrow
	ErrThrowParen
	ErrThrowCatch
	ExpPadding
	ExpLinebreak
	FunProtoVoidCXX
	OpAssign
	OpOverload
	OpOverloadBinand
	EnumClass

	numRules
)

// NumRules is the size of the rule table.
const NumRules = int(numRules)

// Category groups rules by the check family that emits them.
type Category string

const (
	CategoryFile         Category = "file"
	CategoryBraces       Category = "braces"
	CategoryFunctions    Category = "functions"
	CategoryExports      Category = "exports"
	CategoryPreprocessor Category = "preprocessor"
	CategoryDeclarations Category = "declarations"
	CategoryControl      Category = "control"
	CategoryStrict       Category = "strict"
	CategoryFormat       Category = "format"
	CategoryGlobals      Category = "globals"
	CategoryNaming       Category = "naming"
	CategoryWriting      Category = "writing"
)

// Scope tells which languages a rule applies to.
type Scope string

const (
	ScopeShared Scope = "shared"
	ScopeC      Scope = "c"
	ScopeCXX    Scope = "cxx"
)

// Rule describes one catalog entry.
type Rule struct {
	ID          RuleID   `json:"-" yaml:"-"`
	Name        string   `json:"id" yaml:"id"`
	Category    Category `json:"category" yaml:"category"`
	Scope       Scope    `json:"scope" yaml:"scope"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description" yaml:"description"`
}

// DefaultEnabled reports whether the rule is on in a fresh configuration.
// C++-only rules are switched on by the C++ transform instead.
func (r Rule) DefaultEnabled() bool {
	return r.Scope != ScopeCXX
}

var catalog = [NumRules]Rule{
	FileDOS:       {Name: "file.dos", Category: CategoryFile, Scope: ScopeShared, Severity: Major, Description: "Unix LF line endings only, no CRLF"},
	FileTerminate: {Name: "file.terminate", Category: CategoryFile, Scope: ScopeShared, Severity: Major, Description: "File must end with a newline"},
	FileSpurious:  {Name: "file.spurious", Category: CategoryFile, Scope: ScopeShared, Severity: Major, Description: "No blank line at the start or end of the file"},
	FileTrailing:  {Name: "file.trailing", Category: CategoryFile, Scope: ScopeShared, Severity: Minor, Description: "No trailing whitespace"},
	LinesEmpty:    {Name: "lines.empty", Category: CategoryFile, Scope: ScopeShared, Severity: Major, Description: "No consecutive empty lines"},
	Braces:        {Name: "braces", Category: CategoryBraces, Scope: ScopeShared, Severity: Major, Description: "Allman style: braces on their own line"},
	FunLength:     {Name: "fun.length", Category: CategoryFunctions, Scope: ScopeShared, Severity: Major, Description: "Function body within the line limit"},
	FunArgCount:   {Name: "fun.arg.count", Category: CategoryFunctions, Scope: ScopeShared, Severity: Major, Description: "Function parameter count within the limit"},
	FunProtoVoid:  {Name: "fun.proto.void", Category: CategoryFunctions, Scope: ScopeC, Severity: Major, Description: "Empty parameter list spelled (void)"},
	ExportFun:     {Name: "export.fun", Category: CategoryExports, Scope: ScopeC, Severity: Major, Description: "Exported functions per file within the limit"},
	ExportOther:   {Name: "export.other", Category: CategoryExports, Scope: ScopeC, Severity: Major, Description: "Exported globals per file within the limit"},
	CppGuard:      {Name: "cpp.guard", Category: CategoryPreprocessor, Scope: ScopeC, Severity: Major, Description: "Headers need an include guard"},
	CppMark:       {Name: "cpp.mark", Category: CategoryPreprocessor, Scope: ScopeShared, Severity: Major, Description: "Preprocessor # on the first column"},
	CppIf:         {Name: "cpp.if", Category: CategoryPreprocessor, Scope: ScopeShared, Severity: Minor, Description: "#else and #endif carry a comment"},
	CppDigraphs:   {Name: "cpp.digraphs", Category: CategoryPreprocessor, Scope: ScopeShared, Severity: Major, Description: "No digraphs or trigraphs"},
	DeclSingle:    {Name: "decl.single", Category: CategoryDeclarations, Scope: ScopeShared, Severity: Major, Description: "One variable per declaration"},
	DeclVLA:       {Name: "decl.vla", Category: CategoryDeclarations, Scope: ScopeShared, Severity: Major, Description: "No variable-length arrays"},
	StatAsm:       {Name: "stat.asm", Category: CategoryControl, Scope: ScopeShared, Severity: Major, Description: "No inline assembly"},
	CtrlEmpty:     {Name: "ctrl.empty", Category: CategoryControl, Scope: ScopeShared, Severity: Major, Description: "Empty loop bodies use continue"},
	KeywordGoto:   {Name: "keyword.goto", Category: CategoryStrict, Scope: ScopeC, Severity: Major, Description: "No goto"},
	Cast:          {Name: "cast", Category: CategoryStrict, Scope: ScopeC, Severity: Major, Description: "No explicit casts"},
	Format:        {Name: "format", Category: CategoryFormat, Scope: ScopeShared, Severity: Major, Description: "Source matches clang-format output"},

	FileExt:            {Name: "file.ext", Category: CategoryFile, Scope: ScopeCXX, Severity: Major, Description: "C++ files use .cc, .hh or .hxx"},
	CppPragmaOnce:      {Name: "cpp.pragma.once", Category: CategoryPreprocessor, Scope: ScopeCXX, Severity: Major, Description: "Headers use #pragma once"},
	CppIncludeFiletype: {Name: "cpp.include.filetype", Category: CategoryPreprocessor, Scope: ScopeCXX, Severity: Major, Description: "Local includes name .hh or .hxx files"},
	CppIncludeOrder:    {Name: "cpp.include.order", Category: CategoryPreprocessor, Scope: ScopeCXX, Severity: Major, Description: "Same-name header first, system before local, sorted groups"},
	CppConstexpr:       {Name: "cpp.constexpr", Category: CategoryPreprocessor, Scope: ScopeCXX, Severity: Minor, Description: "Literal const globals should be constexpr"},
	GlobalCasts:        {Name: "global.casts", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "Named casts instead of C-style casts"},
	GlobalNoMalloc:     {Name: "global.memory.no_malloc", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "No malloc, calloc, realloc or free"},
	GlobalNullptr:      {Name: "global.nullptr", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "nullptr instead of NULL"},
	CExtern:            {Name: "c.extern", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "No extern \"C\""},
	CHeaders:           {Name: "c.headers", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "C++ wrappers instead of C headers"},
	CStdFunctions:      {Name: "c.std_functions", Category: CategoryGlobals, Scope: ScopeCXX, Severity: Major, Description: "std:: functions instead of C library calls"},
	NamingClass:        {Name: "naming.class", Category: CategoryNaming, Scope: ScopeCXX, Severity: Major, Description: "Class and struct names in CamelCase"},
	NamingNamespace:    {Name: "naming.namespace", Category: CategoryNaming, Scope: ScopeCXX, Severity: Major, Description: "Lowercase namespaces closed with a // namespace comment"},
	DeclRef:            {Name: "decl.ref", Category: CategoryDeclarations, Scope: ScopeCXX, Severity: Major, Description: "& next to the type"},
	DeclPoint:          {Name: "decl.point", Category: CategoryDeclarations, Scope: ScopeCXX, Severity: Major, Description: "* next to the type"},
	DeclCtorExplicit:   {Name: "decl.ctor.explicit", Category: CategoryDeclarations, Scope: ScopeCXX, Severity: Minor, Description: "Single-argument constructors are explicit"},
	CtrlSwitch:         {Name: "ctrl.switch", Category: CategoryControl, Scope: ScopeCXX, Severity: Major, Description: "Every switch has a default case"},
	CtrlSwitchPadding:  {Name: "ctrl.switch.padding", Category: CategoryControl, Scope: ScopeCXX, Severity: Major, Description: "No space before a case label colon"},
	BracesEmpty:        {Name: "braces.empty", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "Empty function bodies are {} on one line"},
	BracesSingleExp:    {Name: "braces.single_exp", Category: CategoryWriting, Scope: ScopeCXX, Severity: Minor, Description: "Single-statement bodies are braced"},
	ErrThrow:           {Name: "err.throw", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "Throw exception objects by value"},
	ErrThrowParen:      {Name: "err.throw.paren", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "No parentheses after throw"},
	ErrThrowCatch:      {Name: "err.throw.catch", Category: CategoryWriting, Scope: ScopeCXX, Severity: Minor, Description: "Catch exceptions by reference"},
	ExpPadding:         {Name: "exp.padding", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "No space between operator and its symbol"},
	ExpLinebreak:       {Name: "exp.linebreak", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "Break lines before binary operators"},
	FunProtoVoidCXX:    {Name: "fun.proto.void.cxx", Category: CategoryFunctions, Scope: ScopeCXX, Severity: Major, Description: "Empty parameter list spelled ()"},
	OpAssign:           {Name: "op.assign", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "operator= returns Class& and *this"},
	OpOverload:         {Name: "op.overload", Category: CategoryWriting, Scope: ScopeCXX, Severity: Major, Description: "Do not overload , && or ||"},
	OpOverloadBinand:   {Name: "op.overload.binand", Category: CategoryWriting, Scope: ScopeCXX, Severity: Minor, Description: "Do not overload unary &"},
	EnumClass:          {Name: "enum.class", Category: CategoryWriting, Scope: ScopeCXX, Severity: Minor, Description: "enum class instead of plain enum"},
}

var byName = func() map[string]RuleID {
	m := make(map[string]RuleID, NumRules)
	for i := range catalog {
		m[catalog[i].Name] = RuleID(i)
	}
	return m
}()

// Lookup returns the catalog entry for id.
func Lookup(id RuleID) Rule {
	r := catalog[id]
	r.ID = id
	return r
}

// ParseRuleID resolves a dotted rule name such as "fun.length".
func ParseRuleID(name string) (RuleID, bool) {
	id, ok := byName[name]
	return id, ok
}

// String returns the dotted rule name.
func (id RuleID) String() string {
	if id < 0 || int(id) >= NumRules {
		return "unknown"
	}
	return catalog[id].Name
}

// Valid reports whether id names a catalog entry.
func (id RuleID) Valid() bool {
	return id >= 0 && int(id) < NumRules
}

// All returns every rule in catalog order.
func All() []Rule {
	rules := make([]Rule, NumRules)
	for i := range catalog {
		rules[i] = Lookup(RuleID(i))
	}
	return rules
}

// Sorted returns every rule ordered by name.
func Sorted() []Rule {
	rules := All()
	sort.Slice(rules, func(i, j int) bool { return rules[i].Name < rules[j].Name })
	return rules
}

// Names returns every rule name in sorted order.
func Names() []string {
	names := make([]string, 0, NumRules)
	for _, r := range Sorted() {
		names = append(names, r.Name)
	}
	return names
}

// ForLanguage returns the sorted rules that apply to language: "c",
// "cxx" (also "c++" or "cpp"), or every rule when language is empty.
func ForLanguage(language string) ([]Rule, error) {
	var skip Scope
	switch strings.ToLower(language) {
	case "":
		return Sorted(), nil
	case "c":
		skip = ScopeCXX
	case "cxx", "c++", "cpp":
		skip = ScopeC
	default:
		return nil, fmt.Errorf("unknown language %q (want c or cxx)", language)
	}
	rules := []Rule{}
	for _, r := range Sorted() {
		if r.Scope != skip {
			rules = append(rules, r)
		}
	}
	return rules, nil
}
