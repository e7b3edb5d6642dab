package checks

import (
	"path/filepath"
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Digraphs and trigraphs, checked in this order.
var digraphs = []string{
	"??=", "??/", "??'", "??(", "??)", "??!", "??<", "??>", "??-",
	"<%", "%>", "<:", ":>",
}

// guardName derives the include guard expected for a header, e.g.
// "my-list.h" gives "MY_LIST_H".
func guardName(path string) string {
	base := strings.ToUpper(filepath.Base(path))
	return strings.NewReplacer(".", "_", "-", "_").Replace(base)
}

// checkPreprocessor covers include guards, directive placement, comments
// on #else and #endif, and digraphs.
func checkPreprocessor(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config

	if cfg.Enabled(lint.CppGuard) && f.Ext() == ".h" {
		guard := guardName(f.Path)
		found := false
		for _, line := range f.Lines {
			if strings.Contains(line, "#ifndef") && strings.Contains(line, guard) {
				found = true
				break
			}
		}
		if !found {
			r.addf(lint.CppGuard, 0, 0, "Missing include guard (#ifndef %s)", guard)
		}
	}

	checkMark := cfg.Enabled(lint.CppMark)
	checkIf := cfg.Enabled(lint.CppIf)
	checkDigraphs := cfg.Enabled(lint.CppDigraphs)
	if !checkMark && !checkIf && !checkDigraphs {
		return r.violations()
	}

	masked := f.Masked()
	for i, line := range f.Lines {
		s := strings.TrimSpace(masked[i])

		if checkMark && strings.HasPrefix(s, "#") && !strings.HasPrefix(line, "#") {
			r.add(lint.CppMark, i, 0, "# must be on first column")
		}

		if checkIf {
			for _, directive := range []string{"#endif", "#else"} {
				if !strings.HasPrefix(s, directive) {
					continue
				}
				if !strings.Contains(line, "//") && !strings.Contains(line, "/*") {
					r.addf(lint.CppIf, i, 0, "%s should have comment", directive)
				}
				break
			}
		}

		if checkDigraphs {
			for _, d := range digraphs {
				if col := digraphIndex(f.Lang, line, d); col >= 0 {
					r.addf(lint.CppDigraphs, i, col, "Digraph '%s' not allowed", d)
				}
			}
		}
	}
	return r.violations()
}

// digraphIndex finds d in line. In C++ "<::" is a template argument list
// opening on a global name, not the "<:" digraph.
func digraphIndex(lang syntax.Language, line, d string) int {
	from := 0
	for {
		idx := strings.Index(line[from:], d)
		if idx < 0 {
			return -1
		}
		idx += from
		if lang == syntax.LangCXX && d == "<:" && strings.HasPrefix(line[idx:], "<::") {
			if rest := line[idx+3:]; rest == "" || (rest[0] != ':' && rest[0] != '>') {
				from = idx + 3
				continue
			}
		}
		return idx
	}
}
