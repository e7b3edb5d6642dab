package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// C headers that have a <cname> wrapper.
var cHeaders = map[string]bool{
	"assert.h": true, "complex.h": true, "ctype.h": true, "errno.h": true,
	"fenv.h": true, "float.h": true, "inttypes.h": true, "iso646.h": true,
	"limits.h": true, "locale.h": true, "math.h": true, "setjmp.h": true,
	"signal.h": true, "stdalign.h": true, "stdarg.h": true, "stdatomic.h": true,
	"stdbool.h": true, "stddef.h": true, "stdint.h": true, "stdio.h": true,
	"stdlib.h": true, "stdnoreturn.h": true, "string.h": true, "tgmath.h": true,
	"threads.h": true, "time.h": true, "uchar.h": true, "wchar.h": true,
	"wctype.h": true,
}

// C library functions with a std:: counterpart.
var cFunctions = map[string]bool{
	"printf": true, "scanf": true, "memcpy": true, "memset": true, "memmove": true,
	"strlen": true, "strcmp": true, "strncmp": true, "strcpy": true, "strncpy": true,
	"strcat": true, "strncat": true, "atoi": true, "atof": true, "atol": true,
	"strtol": true, "strtoul": true, "strtod": true, "abs": true, "exit": true,
	"qsort": true, "bsearch": true,
}

var allocFunctions = map[string]bool{
	"malloc": true, "calloc": true, "realloc": true, "free": true,
}

// checkCXXGlobals covers C constructs with a C++ replacement: casts,
// manual allocation, NULL, extern "C", C headers and C library calls.
func checkCXXGlobals(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.GlobalCasts) {
		for _, n := range f.Nodes.Get("cast_expression") {
			r.at(lint.GlobalCasts, n, "Use C++ casts (static_cast, etc.) instead of C-style casts")
		}
	}

	if cfg.AnyEnabled(lint.GlobalNoMalloc, lint.CStdFunctions) {
		for _, call := range f.Nodes.Get("call_expression") {
			fn := call.ChildByField("function")
			if fn == nil || fn.Kind != "identifier" {
				continue
			}
			name := f.Text(fn)
			switch {
			case allocFunctions[name]:
				r.addf(lint.GlobalNoMalloc, call.Start.Row, call.Start.Column,
					"Don't use %s(), use new/delete or smart pointers", name)
			case cFunctions[name]:
				r.addf(lint.CStdFunctions, call.Start.Row, call.Start.Column,
					"Use std::%s instead of %s", name, name)
			}
		}
	}

	if cfg.Enabled(lint.GlobalNullptr) {
		for _, n := range f.Nodes.Get("null") {
			if f.Text(n) == "NULL" {
				r.at(lint.GlobalNullptr, n, "Use nullptr instead of NULL")
			}
		}
	}

	if cfg.Enabled(lint.CExtern) {
		for _, n := range f.Nodes.Get("linkage_specification") {
			r.at(lint.CExtern, n, `No extern "C" in C++ code`)
		}
	}

	if cfg.Enabled(lint.CHeaders) {
		for _, inc := range f.includes() {
			if inc.group != "system" {
				continue
			}
			header := strings.Trim(inc.name, "<>")
			if cHeaders[header] {
				r.addf(lint.CHeaders, inc.row, 0, "Use <c%s> instead of <%s>",
					strings.TrimSuffix(header, ".h"), header)
			}
		}
	}

	return r.violations()
}
