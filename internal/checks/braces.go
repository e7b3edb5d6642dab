package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// checkBraces enforces Allman style on the masked text, so braces inside
// comments and literals never count. Preprocessor lines and macro bodies
// are skipped.
func checkBraces(f *File) []lint.Violation {
	if !f.Config.Enabled(lint.Braces) {
		return nil
	}
	r := newReporter(f)

	for i, m := range f.Masked() {
		s := strings.TrimSpace(m)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if strings.HasSuffix(trimRight(f.Line(i)), "\\") {
			continue
		}
		lead := indent(m)

		initializer := false
		if pos := strings.IndexByte(s, '{'); pos >= 0 {
			before := strings.TrimSpace(s[:pos])
			initializer = isAssignment(before)
			if before != "" && before != "do" && !initializer && stripSpace(s) != "{}" {
				r.add(lint.Braces, i, lead+pos, "Opening brace must be on its own line")
			}
		}

		if pos := strings.IndexByte(s, '}'); pos >= 0 && !initializer {
			if !closingSuffixAllowed(strings.TrimSpace(s[pos+1:])) {
				r.add(lint.Braces, i, lead+pos, "Closing brace must be on its own line")
			}
		}
	}
	return r.violations()
}

func closingSuffixAllowed(after string) bool {
	switch after {
	case "", ";", ",", ");":
		return true
	}
	return strings.HasPrefix(after, "while")
}

// isAssignment reports whether s holds an "=" that is not part of a
// comparison operator.
func isAssignment(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '=' {
			i++
			continue
		}
		if i > 0 && strings.IndexByte("!=<>", s[i-1]) >= 0 {
			continue
		}
		return true
	}
	return false
}
