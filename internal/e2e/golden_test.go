//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/epitastyle/internal/checker"
	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/discover"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/report"
	"github.com/dusk-indust/epitastyle/internal/runner"
)

var update = flag.Bool("update", false, "update golden files")

// goldenPath returns the absolute path of the golden report. It must be
// called before checkFixture changes directory.
func goldenPath(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("..", "..", "testdata", "golden", "c_project.txt"))
	require.NoError(t, err)
	return abs
}

// checkFixture checks the fixture project from inside it, so reported
// paths are relative, and returns the files and the text report.
func checkFixture(t *testing.T) ([]string, []lint.Violation, string) {
	t.Helper()
	t.Chdir(filepath.Join("..", "..", "testdata", "fixtures", "c_project"))

	files, err := discover.Files([]string{"."}, discover.Options{})
	require.NoError(t, err)

	cfg := config.Default().With(lint.Format, false)
	results, err := runner.New(checker.New(), 2, nil).Run(context.Background(), files, cfg)
	require.NoError(t, err)
	vs := runner.Flatten(results)

	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, len(files), vs, report.TextOptions{ShowSource: true}))
	return files, vs, buf.String()
}

func byFile(vs []lint.Violation) map[string][]string {
	out := make(map[string][]string)
	for _, v := range vs {
		out[v.File] = append(out[v.File], v.Rule)
	}
	return out
}

func TestFixtureProject(t *testing.T) {
	files, vs, _ := checkFixture(t)

	assert.Equal(t, []string{
		filepath.Join("include", "list.h"),
		filepath.Join("src", "list.c"),
		filepath.Join("src", "main.c"),
		filepath.Join("src", "widget.cc"),
	}, files, "build/ is gitignored")

	rules := byFile(vs)
	assert.Contains(t, rules[filepath.Join("include", "list.h")], "cpp.guard")
	assert.Contains(t, rules[filepath.Join("src", "main.c")], "braces")
	assert.Contains(t, rules[filepath.Join("src", "main.c")], "keyword.goto")
	assert.NotContains(t, rules[filepath.Join("src", "list.c")], "braces")
	assert.Equal(t, []string{"global.nullptr", "decl.point"}, rules[filepath.Join("src", "widget.cc")])
	assert.True(t, lint.HasMajor(vs))
}

// TestGolden compares the text report against the golden file. Run with
// -update to rewrite it.
func TestGolden(t *testing.T) {
	golden := goldenPath(t)
	_, _, got := checkFixture(t)

	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(golden), 0o755))
		require.NoError(t, os.WriteFile(golden, []byte(got), 0o644))
		t.Logf("updated golden file: %s", golden)
		return
	}

	want, err := os.ReadFile(golden)
	require.NoError(t, err, "run with -update to create %s", golden)
	assert.Equal(t, string(want), got)
}
