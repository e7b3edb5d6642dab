// Package discover expands command-line paths into the sorted list of
// source files to check.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// ErrNoFiles is returned when the paths hold no checkable file.
var ErrNoFiles = errors.New("no C or C++ files found")

// Options controls discovery.
type Options struct {
	// Exclude holds doublestar globs matched against slash-separated
	// paths, e.g. "**/build/**" or "tests/*.c".
	Exclude []string

	Logger *slog.Logger
}

// Files walks paths and returns every supported source file, sorted and
// without duplicates. Directories are walked recursively; .git is skipped
// and a .gitignore at the walked root is honored. Files named explicitly
// are kept when their extension is supported. Paths that do not exist are
// logged and skipped; ErrNoFiles is returned when nothing is left.
func Files(paths []string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "discover")

	seen := make(map[string]bool)
	var out []string
	add := func(path string) error {
		path = filepath.Clean(path)
		if seen[path] {
			return nil
		}
		skip, err := Excluded(opts.Exclude, path)
		if err != nil {
			return err
		}
		if skip {
			logger.Debug("excluded", "path", path)
			return nil
		}
		seen[path] = true
		out = append(out, path)
		return nil
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("skipping path", "path", p, "err", err)
			continue
		}
		if !info.IsDir() {
			if syntax.Supported(p) {
				if err := add(p); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := walk(p, opts.Exclude, add, logger); err != nil {
			return nil, err
		}
	}

	if len(out) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(out)
	return out, nil
}

func walk(root string, exclude []string, add func(string) error, logger *slog.Logger) error {
	gi := loadGitignore(root, logger)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return fs.SkipDir
			}
			skip, err := Excluded(exclude, path)
			if err != nil {
				return err
			}
			if skip {
				return fs.SkipDir
			}
			return nil
		}

		if !syntax.Supported(path) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		return add(path)
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func loadGitignore(root string, logger *slog.Logger) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		logger.Warn("unreadable .gitignore", "path", path, "err", err)
		return nil
	}
	return gi
}

// Excluded reports whether path matches any exclude glob.
func Excluded(patterns []string, path string) (bool, error) {
	slashed := filepath.ToSlash(path)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			return false, fmt.Errorf("malformed exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
