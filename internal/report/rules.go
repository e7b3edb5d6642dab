package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// ruleEntry is the serialized form of a catalog entry.
type ruleEntry struct {
	ID          string        `json:"id" yaml:"id"`
	Category    lint.Category `json:"category" yaml:"category"`
	Language    string        `json:"language" yaml:"language"`
	Default     string        `json:"default" yaml:"default"`
	Severity    lint.Severity `json:"severity" yaml:"severity"`
	Description string        `json:"description" yaml:"description"`
}

func language(s lint.Scope) string {
	switch s {
	case lint.ScopeC:
		return "C"
	case lint.ScopeCXX:
		return "C++"
	default:
		return "C, C++"
	}
}

// defaultState describes when a rule runs without configuration. C++
// rules are off in the base configuration but switched on for every C++
// file.
func defaultState(r lint.Rule) string {
	switch {
	case r.Scope == lint.ScopeCXX:
		return "on (C++)"
	case r.DefaultEnabled():
		return "on"
	default:
		return "off"
	}
}

func entries(rules []lint.Rule) []ruleEntry {
	out := make([]ruleEntry, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleEntry{
			ID:          r.Name,
			Category:    r.Category,
			Language:    language(r.Scope),
			Default:     defaultState(r),
			Severity:    r.Severity,
			Description: r.Description,
		})
	}
	return out
}

// Rules renders the catalog in the given format.
func Rules(w io.Writer, format Format, rules []lint.Rule) error {
	switch format {
	case FormatJSON:
		return encodeJSON(w, entries(rules))
	case FormatYAML:
		return encodeYAML(w, entries(rules))
	default:
		RulesTable(w, rules)
		return nil
	}
}

// RulesTable writes the catalog as a table.
func RulesTable(w io.Writer, rules []lint.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Category", "Language", "Default", "Severity", "Description"})
	for _, e := range entries(rules) {
		t.AppendRow(table.Row{e.ID, e.Category, e.Language, e.Default, e.Severity, e.Description})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", len(rules)})
	t.Render()
}
