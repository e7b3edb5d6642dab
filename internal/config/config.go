// Package config holds the checker configuration: the rule table, the
// numeric limits, presets, and the layered loader that fills them.
package config

import (
	"fmt"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// Default limits.
const (
	DefaultMaxLines   = 30
	DefaultMaxArgs    = 4
	DefaultMaxFuncs   = 10
	DefaultMaxGlobals = 1

	// CXXMaxLines is the body-length limit applied to C++ files.
	CXXMaxLines = 50
)

// Config is an immutable checker configuration. Every method that changes
// something returns a new value.
type Config struct {
	Rules [lint.NumRules]bool

	MaxLines   int // counted lines per function body
	MaxArgs    int // parameters per function
	MaxFuncs   int // exported functions per .c file
	MaxGlobals int // exported globals per .c file
}

// Default returns the configuration used when nothing else is specified:
// every C and shared rule on, every C++-only rule off.
func Default() Config {
	c := Config{
		MaxLines:   DefaultMaxLines,
		MaxArgs:    DefaultMaxArgs,
		MaxFuncs:   DefaultMaxFuncs,
		MaxGlobals: DefaultMaxGlobals,
	}
	for _, r := range lint.All() {
		c.Rules[r.ID] = r.DefaultEnabled()
	}
	return c
}

// Enabled reports whether rule id is switched on.
func (c Config) Enabled(id lint.RuleID) bool {
	return id.Valid() && c.Rules[id]
}

// AnyEnabled reports whether at least one of ids is switched on.
func (c Config) AnyEnabled(ids ...lint.RuleID) bool {
	for _, id := range ids {
		if c.Enabled(id) {
			return true
		}
	}
	return false
}

// With returns a copy of c with rule id switched on or off.
func (c Config) With(id lint.RuleID, on bool) Config {
	if id.Valid() {
		c.Rules[id] = on
	}
	return c
}

// WithCXX returns the configuration applied to C++ files: every C++-only
// rule on (even if disabled by the user), every C-only rule off, and the
// C++ body-length limit. Shared rules and the other limits are kept.
func (c Config) WithCXX() Config {
	for _, r := range lint.All() {
		switch r.Scope {
		case lint.ScopeCXX:
			c.Rules[r.ID] = true
		case lint.ScopeC:
			c.Rules[r.ID] = false
		}
	}
	c.MaxLines = CXXMaxLines
	return c
}

// EnabledRules returns the ids switched on, in catalog order.
func (c Config) EnabledRules() []lint.RuleID {
	var ids []lint.RuleID
	for i, on := range c.Rules {
		if on {
			ids = append(ids, lint.RuleID(i))
		}
	}
	return ids
}

// Validate rejects non-positive limits.
func (c Config) Validate() error {
	limits := []struct {
		name  string
		value int
	}{
		{"max_lines", c.MaxLines},
		{"max_args", c.MaxArgs},
		{"max_funcs", c.MaxFuncs},
		{"max_globals", c.MaxGlobals},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", l.name, l.value)
		}
	}
	return nil
}
