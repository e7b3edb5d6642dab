// Package report renders violations and the rule catalog as text, JSON
// or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Summary is the per-run tally.
type Summary struct {
	Files int `json:"files" yaml:"files"`
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
}

// Summarize counts the violations of a run over files files.
func Summarize(files int, vs []lint.Violation) Summary {
	major, minor := lint.Count(vs)
	return Summary{Files: files, Major: major, Minor: minor}
}

func (s Summary) String() string {
	return fmt.Sprintf("Files: %d  Major: %d  Minor: %d", s.Files, s.Major, s.Minor)
}

// Document is the JSON and YAML shape of a run.
type Document struct {
	Summary    Summary          `json:"summary" yaml:"summary"`
	Violations []lint.Violation `json:"violations" yaml:"violations"`
}

func newDocument(files int, vs []lint.Violation) Document {
	if vs == nil {
		vs = []lint.Violation{}
	}
	return Document{Summary: Summarize(files, vs), Violations: vs}
}

// Write renders a run in the given format.
func Write(w io.Writer, format Format, files int, vs []lint.Violation, opts TextOptions) error {
	switch format {
	case FormatJSON:
		return JSON(w, files, vs)
	case FormatYAML:
		return YAML(w, files, vs)
	default:
		return Text(w, files, vs, opts)
	}
}

// JSON writes the run as an indented JSON document.
func JSON(w io.Writer, files int, vs []lint.Violation) error {
	return encodeJSON(w, newDocument(files, vs))
}

// YAML writes the run as a YAML document.
func YAML(w io.Writer, files int, vs []lint.Violation) error {
	return encodeYAML(w, newDocument(files, vs))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
