// Package lint defines the violation model and the rule catalog shared by
// every check.
package lint

import (
	"fmt"
	"strings"
)

// Severity classifies a violation. MAJOR violations fail a run.
type Severity string

const (
	Major Severity = "MAJOR"
	Minor Severity = "MINOR"
)

// ReadRule is the synthetic rule id attached to files that could not be
// read, decoded or parsed.
const ReadRule = "file.read"

// Violation is one reported rule breach.
type Violation struct {
	File     string   `json:"file" yaml:"file"`
	Line     int      `json:"line" yaml:"line"`     // 1-based; 0 for whole-file failures
	Column   int      `json:"column" yaml:"column"` // 0-based byte column
	Rule     string   `json:"rule" yaml:"rule"`
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`

	// LineContent is the offending source line, kept for display.
	LineContent string `json:"lineContent,omitempty" yaml:"lineContent,omitempty"`
}

// String renders v as "path:line:column: [SEVERITY] rule: message".
func (v Violation) String() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s: %s", v.File, v.Line, v.Column, v.Severity, v.Rule, v.Message)
}

// ReadFailure builds the single violation reported for a file whose
// content is unavailable.
func ReadFailure(path string, err error) Violation {
	return Violation{
		File:     path,
		Line:     0,
		Rule:     ReadRule,
		Message:  strings.TrimSpace(err.Error()),
		Severity: Major,
	}
}

// Count returns the number of MAJOR and MINOR violations in vs.
func Count(vs []Violation) (major, minor int) {
	for _, v := range vs {
		switch v.Severity {
		case Major:
			major++
		case Minor:
			minor++
		}
	}
	return major, minor
}

// HasMajor reports whether any violation in vs is MAJOR.
func HasMajor(vs []Violation) bool {
	major, _ := Count(vs)
	return major > 0
}
