package mcptools

import (
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/report"
)

// --- MCP Tool Input Types ---
// The SDK derives each tool's JSON schema from these struct tags.

// ruleOverrides adjusts the server's base configuration for one call.
type ruleOverrides struct {
	preset  string
	enable  []string
	disable []string
}

// CheckFileInput is the input for the check_file MCP tool.
type CheckFileInput struct {
	Path     string   `json:"path,omitempty" jsonschema:"path of a .c, .h, .cc, .hh or .hxx file to check"`
	Content  string   `json:"content,omitempty" jsonschema:"source text to check instead of reading path"`
	Filename string   `json:"filename,omitempty" jsonschema:"file name used for inline content; its extension picks the language"`
	Preset   string   `json:"preset,omitempty" jsonschema:"preset applied on top of the server configuration, e.g. 42sh"`
	Enable   []string `json:"enable,omitempty" jsonschema:"rule ids to enable, e.g. enum.class"`
	Disable  []string `json:"disable,omitempty" jsonschema:"rule ids to disable, e.g. format"`
}

func (in CheckFileInput) overrides() ruleOverrides {
	return ruleOverrides{preset: in.Preset, enable: in.Enable, disable: in.Disable}
}

// CheckFileOutput is the result of the check_file MCP tool.
type CheckFileOutput struct {
	File       string           `json:"file"`
	Language   string           `json:"language"`
	Summary    report.Summary   `json:"summary"`
	Violations []lint.Violation `json:"violations"`
}

// CheckPathsInput is the input for the check_paths MCP tool.
type CheckPathsInput struct {
	Paths   []string `json:"paths" jsonschema:"files or directories to check; directories are walked recursively"`
	Exclude []string `json:"exclude,omitempty" jsonschema:"doublestar globs to skip, e.g. **/tests/**"`
	Preset  string   `json:"preset,omitempty" jsonschema:"preset applied on top of the server configuration, e.g. 42sh"`
	Enable  []string `json:"enable,omitempty" jsonschema:"rule ids to enable"`
	Disable []string `json:"disable,omitempty" jsonschema:"rule ids to disable"`
}

func (in CheckPathsInput) overrides() ruleOverrides {
	return ruleOverrides{preset: in.Preset, enable: in.Enable, disable: in.Disable}
}

// FileSummary is the tally for one checked file.
type FileSummary struct {
	Path  string `json:"path"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
}

// CheckPathsOutput is the result of the check_paths MCP tool.
type CheckPathsOutput struct {
	Summary    report.Summary   `json:"summary"`
	Files      []FileSummary    `json:"files"`
	Violations []lint.Violation `json:"violations"`
}

// ListRulesInput is the input for the list_rules MCP tool.
type ListRulesInput struct {
	Language string `json:"language,omitempty" jsonschema:"only rules that apply to this language: c or cxx"`
}

// ListRulesOutput is the result of the list_rules MCP tool.
type ListRulesOutput struct {
	Rules []lint.Rule `json:"rules"`
	Total int         `json:"total"`
}
