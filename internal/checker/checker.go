// Package checker is the language dispatcher: it reads a file, picks the
// grammar and rule set for its extension and runs the rule engine.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dusk-indust/epitastyle/internal/checks"
	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// Formatter is the external formatting pass behind the "format" rule.
type Formatter interface {
	Check(ctx context.Context, path string, lang syntax.Language, src []byte) (lint.Violation, bool)
}

// Checker checks one file at a time. It holds no per-file state and is
// safe for concurrent use.
type Checker struct {
	formatter Formatter
	logger    *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithFormatter enables the formatting pass. Without one the "format"
// rule never fires.
func WithFormatter(f Formatter) Option {
	return func(c *Checker) { c.formatter = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// New returns a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "checker")
	return c
}

// CheckFile reads path and checks it. Unsupported extensions yield nil. A
// file that cannot be read yields a single file.read violation.
func (c *Checker) CheckFile(ctx context.Context, path string, cfg config.Config) []lint.Violation {
	if !syntax.Supported(path) {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		c.logger.Debug("read failed", "path", path, "err", err)
		return []lint.Violation{lint.ReadFailure(path, err)}
	}
	return c.CheckSource(ctx, path, raw, cfg)
}

// CheckSource checks src as the content of path. C++ files are checked
// with cfg.WithCXX().
func (c *Checker) CheckSource(ctx context.Context, path string, src []byte, cfg config.Config) []lint.Violation {
	lang, ok := syntax.FromPath(path)
	if !ok {
		return nil
	}
	if lang == syntax.LangCXX {
		cfg = cfg.WithCXX()
	}

	text, err := Decode(src)
	if err != nil {
		return []lint.Violation{lint.ReadFailure(path, fmt.Errorf("decode: %w", err))}
	}
	root, err := syntax.Parse(text, lang)
	if err != nil {
		return []lint.Violation{lint.ReadFailure(path, fmt.Errorf("parse: %w", err))}
	}

	f := checks.NewFile(path, lang, text, root, cfg)
	vs := checks.Run(f)

	if c.formatter != nil && cfg.Enabled(lint.Format) {
		if v, bad := c.formatter.Check(ctx, path, lang, text); bad {
			v.LineContent = f.Line(0)
			vs = append(vs, v)
		}
	}
	return vs
}

// Decode strips a byte order mark and replaces invalid UTF-8 with U+FFFD.
func Decode(src []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), src)
	return out, err
}

// CheckFile checks path without a formatting pass.
func CheckFile(path string, cfg config.Config) []lint.Violation {
	return New().CheckFile(context.Background(), path, cfg)
}

// CheckSource checks src as the content of path without a formatting pass.
func CheckSource(path string, src []byte, cfg config.Config) []lint.Violation {
	return New().CheckSource(context.Background(), path, src, cfg)
}
