package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named set of overrides applied on top of the defaults and
// below any configuration file.
type Preset struct {
	Name        string
	Description string
	MaxLines    int // 0 keeps the current value
	Disable     []lint.RuleID
}

var presets = map[string]Preset{
	"42sh": {
		Name:        "42sh",
		Description: "42sh project: 40-line functions, goto and casts allowed",
		MaxLines:    40,
		Disable:     []lint.RuleID{lint.KeywordGoto, lint.Cast},
	},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownPreset, name, PresetNames())
	}
	return p, nil
}

// PresetNames returns the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply returns c with the preset overrides applied.
func (p Preset) Apply(c Config) Config {
	if p.MaxLines > 0 {
		c.MaxLines = p.MaxLines
	}
	for _, id := range p.Disable {
		c = c.With(id, false)
	}
	return c
}

// values renders the preset as a koanf layer.
func (p Preset) values() map[string]any {
	rules := make(map[string]any, len(p.Disable))
	for _, id := range p.Disable {
		rules[id.String()] = false
	}
	m := map[string]any{"rules": rules}
	if p.MaxLines > 0 {
		m["max_lines"] = p.MaxLines
	}
	return m
}
