// Package format runs clang-format in dry-run mode and turns its verdict
// into the "format" rule.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/google/shlex"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

const (
	// DefaultCommand is the formatter looked up on PATH.
	DefaultCommand = "clang-format"
	// DefaultTimeout bounds one formatter run.
	DefaultTimeout = 10 * time.Second
)

// ErrNotInstalled is returned by New when the formatter binary cannot be
// found.
var ErrNotInstalled = errors.New("formatter not installed")

// clangDiagnostic matches "file:12:3: error: ..." lines on stderr.
var clangDiagnostic = regexp.MustCompile(`^.*:(\d+):\d+: (?:error|warning):`)

// Runner invokes the formatter. It is safe for concurrent use.
type Runner struct {
	argv    []string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger for formatter failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New parses a shell-style command line, e.g. "clang-format-18" or
// "/opt/llvm/bin/clang-format --fallback-style=none", and resolves the
// binary on PATH. An empty command line means DefaultCommand.
func New(commandLine string, opts ...Option) (*Runner, error) {
	argv, err := shlex.Split(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse formatter command %q: %w", commandLine, err)
	}
	if len(argv) == 0 {
		argv = []string{DefaultCommand}
	}
	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, argv[0])
	}
	argv[0] = bin

	r := &Runner{
		argv:    argv,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "format")
	return r, nil
}

// Command returns the resolved command line.
func (r *Runner) Command() []string {
	return append([]string(nil), r.argv...)
}

// Check feeds src to the formatter as if it were path and reports whether
// the result differs. A formatter that times out or cannot run yields no
// violation.
func (r *Runner) Check(ctx context.Context, path string, lang syntax.Language, src []byte) (lint.Violation, bool) {
	style, err := Style(path, lang)
	if err != nil {
		r.logger.Debug("resolve style", "path", path, "err", err)
		return lint.Violation{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(r.argv[1:len(r.argv):len(r.argv)],
		"--style="+style, "--dry-run", "--Werror", "--assume-filename="+path)
	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err = cmd.Run()
	if err == nil {
		return lint.Violation{}, false
	}
	if ctx.Err() != nil {
		r.logger.Debug("formatter timed out", "path", path, "timeout", r.timeout)
		return lint.Violation{}, false
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		r.logger.Debug("formatter failed", "path", path, "err", err)
		return lint.Violation{}, false
	}

	return lint.Violation{
		File:     path,
		Line:     1,
		Rule:     lint.Format.String(),
		Message:  Message(CountLines(stderr.Bytes())),
		Severity: lint.Major,
	}, true
}

// CountLines returns the number of distinct source lines the formatter
// complained about.
func CountLines(stderr []byte) int {
	seen := make(map[int]bool)
	for _, line := range bytes.Split(stderr, []byte("\n")) {
		m := clangDiagnostic.FindSubmatch(line)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(string(m[1])); err == nil {
			seen[n] = true
		}
	}
	return len(seen)
}

// Message words the format violation for n offending lines.
func Message(n int) string {
	switch {
	case n <= 0:
		return "Needs formatting"
	case n == 1:
		return "1 line needs formatting"
	default:
		return fmt.Sprintf("%d lines need formatting", n)
	}
}
