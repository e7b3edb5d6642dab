package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

var sample = []lint.Violation{
	{File: "main.c", Line: 4, Column: 13, Rule: "braces", Message: "Opening brace must be on its own line", Severity: lint.Major, LineContent: "void f(void) {"},
	{File: "main.c", Line: 9, Column: 6, Rule: "file.trailing", Message: "Trailing whitespace", Severity: lint.Minor},
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

func TestText_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, 2, sample, TextOptions{}))

	want := "main.c:4:13: [MAJOR] braces: Opening brace must be on its own line\n" +
		"main.c:9:6: [MINOR] file.trailing: Trailing whitespace\n" +
		"\n" +
		"Files: 2  Major: 1  Minor: 1\n"
	assert.Equal(t, want, buf.String())
}

func TestText_ShowSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, 1, sample, TextOptions{ShowSource: true}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "    void f(void) {", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "main.c:9:6:"))
}

func TestText_Quiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, 3, sample, TextOptions{Quiet: true}))
	assert.Equal(t, "Files: 3  Major: 1  Minor: 1\n", buf.String())
}

func TestText_NoViolations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, 5, nil, TextOptions{}))
	assert.Equal(t, "Files: 5  Major: 0  Minor: 0\n", buf.String())
}

func TestText_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, 1, sample, TextOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "[MAJOR]")
}

func TestColorEnabled(t *testing.T) {
	assert.False(t, ColorEnabled(&bytes.Buffer{}, false))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(&bytes.Buffer{}, false))
}

// ---------------------------------------------------------------------------
// Structured output
// ---------------------------------------------------------------------------

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, 2, sample, TextOptions{}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Summary{Files: 2, Major: 1, Minor: 1}, doc.Summary)
	assert.Equal(t, sample, doc.Violations)
	assert.Contains(t, buf.String(), `"lineContent": "void f(void) {"`)
}

func TestJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, 0, nil))
	assert.Contains(t, buf.String(), `"violations": []`)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, 2, sample, TextOptions{}))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Summary.Major)
	require.Len(t, doc.Violations, 2)
	assert.Equal(t, "file.trailing", doc.Violations[1].Rule)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestSummaryString(t *testing.T) {
	assert.Equal(t, "Files: 3  Major: 2  Minor: 0", Summary{Files: 3, Major: 2}.String())
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

func TestRulesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Rules(&buf, FormatText, lint.Sorted()))
	out := buf.String()
	assert.Contains(t, out, "Rule")
	assert.Contains(t, out, "fun.length")
	assert.Contains(t, out, "exp.linebreak")
	assert.Contains(t, out, "C++")
	assert.Contains(t, out, "on (C++)")
	assert.NotContains(t, out, " off ")
}

func TestRulesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Rules(&buf, FormatJSON, lint.All()))

	var got []ruleEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, lint.NumRules)

	byID := make(map[string]ruleEntry)
	for _, e := range got {
		byID[e.ID] = e
	}
	assert.Equal(t, "on", byID["keyword.goto"].Default)
	assert.Equal(t, "C", byID["keyword.goto"].Language)
	assert.Equal(t, "on (C++)", byID["enum.class"].Default)
	assert.Equal(t, lint.Minor, byID["enum.class"].Severity)
	assert.Equal(t, "C, C++", byID["braces"].Language)
}
