package checks

import (
	"strings"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// checkFileFormat covers line endings, the final newline, blank lines at
// the edges and in runs, and trailing whitespace. Empty files pass.
func checkFileFormat(f *File) []lint.Violation {
	r := newReporter(f)
	cfg := f.Config
	if len(f.Src) == 0 {
		return nil
	}
	content := string(f.Src)
	lines := f.Lines

	if cfg.Enabled(lint.FileDOS) && strings.Contains(content, "\r\n") {
		r.add(lint.FileDOS, 0, 0, "Use Unix LF, not DOS CRLF")
	}

	if cfg.Enabled(lint.FileTerminate) && !strings.HasSuffix(content, "\n") {
		r.add(lint.FileTerminate, len(lines)-1, 0, "File must end with newline")
	}

	if cfg.Enabled(lint.FileSpurious) {
		if isBlank(lines[0]) {
			r.add(lint.FileSpurious, 0, 0, "No blank lines at start of file")
		}
		// The empty element after the final "\n" is not a line of its own.
		last := len(lines) - 1
		if lines[last] == "" {
			last--
		}
		if last >= 0 && isBlank(lines[last]) {
			r.add(lint.FileSpurious, last, 0, "No blank lines at end of file")
		}
	}

	if cfg.Enabled(lint.LinesEmpty) {
		end := len(lines)
		if lines[end-1] == "" {
			end--
		}
		for i := 1; i < end; i++ {
			if isBlank(lines[i]) && isBlank(lines[i-1]) {
				r.add(lint.LinesEmpty, i, 0, "No consecutive empty lines")
			}
		}
	}

	if cfg.Enabled(lint.FileTrailing) {
		for i, line := range lines {
			if trimmed := trimRight(line); trimmed != line {
				r.add(lint.FileTrailing, i, len(trimmed), "Trailing whitespace")
			}
		}
	}

	return r.violations()
}
