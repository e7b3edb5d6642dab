package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// ---------------------------------------------------------------------------
// Config values
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 30, c.MaxLines)
	assert.Equal(t, 4, c.MaxArgs)
	assert.Equal(t, 10, c.MaxFuncs)
	assert.Equal(t, 1, c.MaxGlobals)

	for _, r := range lint.All() {
		assert.Equal(t, r.Scope != lint.ScopeCXX, c.Enabled(r.ID), r.Name)
	}
	require.NoError(t, c.Validate())
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	c := Default()
	d := c.With(lint.Braces, false)

	assert.True(t, c.Enabled(lint.Braces))
	assert.False(t, d.Enabled(lint.Braces))
	assert.False(t, c.Enabled(lint.RuleID(lint.NumRules)))
}

func TestWithCXX(t *testing.T) {
	c := Default().With(lint.NamingClass, false)
	c.MaxArgs = 6
	x := c.WithCXX()

	assert.Equal(t, CXXMaxLines, x.MaxLines)
	assert.Equal(t, 6, x.MaxArgs, "other limits are preserved")
	assert.True(t, x.Enabled(lint.NamingClass), "C++ rules are forced on")
	for _, id := range []lint.RuleID{lint.FunProtoVoid, lint.ExportFun, lint.ExportOther, lint.CppGuard, lint.KeywordGoto, lint.Cast} {
		assert.False(t, x.Enabled(id), id.String())
	}
	assert.True(t, x.Enabled(lint.Braces), "shared rules are kept")
	assert.True(t, x.Enabled(lint.FunLength))
}

func TestWithCXX_KeepsDisabledSharedRule(t *testing.T) {
	x := Default().With(lint.FileTrailing, false).WithCXX()
	assert.False(t, x.Enabled(lint.FileTrailing))
}

func TestEnabledRules(t *testing.T) {
	var c Config
	c = c.With(lint.Cast, true).With(lint.FileDOS, true)
	assert.Equal(t, []lint.RuleID{lint.FileDOS, lint.Cast}, c.EnabledRules())
	assert.True(t, c.AnyEnabled(lint.Braces, lint.Cast))
	assert.False(t, c.AnyEnabled(lint.Braces))
}

func TestValidate(t *testing.T) {
	c := Default()
	c.MaxArgs = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_args")
}

// ---------------------------------------------------------------------------
// Presets
// ---------------------------------------------------------------------------

func TestPreset42sh(t *testing.T) {
	p, err := LookupPreset("42sh")
	require.NoError(t, err)

	c := p.Apply(Default())
	assert.Equal(t, 40, c.MaxLines)
	assert.False(t, c.Enabled(lint.KeywordGoto))
	assert.False(t, c.Enabled(lint.Cast))
	assert.True(t, c.Enabled(lint.Braces))
}

func TestLookupPreset_Unknown(t *testing.T) {
	_, err := LookupPreset("nope")
	require.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, PresetNames(), "42sh")
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("max-lines", DefaultMaxLines, "")
	fs.Int("max-args", DefaultMaxArgs, "")
	fs.String("preset", "", "")
	fs.StringSlice("enable", nil, "")
	fs.StringSlice("disable", nil, "")
	fs.StringSlice("exclude", nil, "")
	fs.String("format", "text", "")
	return fs
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	s, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, Default(), s.Config)
	assert.Empty(t, s.File)
	assert.Equal(t, "clang-format", s.Formatter)
	assert.Positive(t, s.Workers)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".epita-style.yml", `
max_lines: 25
max_globals: 3
exclude:
  - "build/**"
rules:
  keyword.goto: false
  naming.class: true
  not.a.rule: true
`)

	s, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, path, s.File)
	assert.Equal(t, 25, s.Config.MaxLines)
	assert.Equal(t, 3, s.Config.MaxGlobals)
	assert.Equal(t, DefaultMaxArgs, s.Config.MaxArgs)
	assert.False(t, s.Config.Enabled(lint.KeywordGoto))
	assert.True(t, s.Config.Enabled(lint.NamingClass))
	assert.Equal(t, []string{"build/**"}, s.Exclude)
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "epita-style.yaml", "max_args: 5\n")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	s, err := Load(LoadOptions{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Config.MaxArgs)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".epita-style.toml", `
max_lines = 40
exclude = ["gen/**"]

[rules]
"keyword.goto" = false
`)

	s, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, path, s.File)
	assert.Equal(t, 40, s.Config.MaxLines)
	assert.False(t, s.Config.Enabled(lint.KeywordGoto))
	assert.Equal(t, []string{"gen/**"}, s.Exclude)
}

func TestLoad_DiscoveryOrder(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"dotted yaml before toml", map[string]string{
			".epita-style.yml":  "max_args: 5\n",
			".epita-style.toml": "max_args = 6\n",
		}, ".epita-style.yml"},
		{"dotted toml before plain", map[string]string{
			".epita-style.toml": "max_args = 6\n",
			"epita-style.toml":  "max_args = 7\n",
		}, ".epita-style.toml"},
		{"plain toml before pyproject", map[string]string{
			"epita-style.toml": "max_args = 7\n",
			"pyproject.toml":   "[tool.epita-coding-style]\nmax_args = 8\n",
		}, "epita-style.toml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tc.files {
				writeConfig(t, dir, name, body)
			}
			s, err := Load(LoadOptions{Dir: dir})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tc.want), s.File)
		})
	}
}

func TestLoad_PyprojectTable(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "pyproject.toml", `
[project]
name = "tool"
max_lines = 99

[tool.epita-coding-style]
max_lines = 35
preset = "42sh"

[tool.epita-coding-style.rules]
"braces" = false
`)

	s, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, path, s.File)
	assert.Equal(t, 35, s.Config.MaxLines)
	assert.Equal(t, "42sh", s.Preset)
	assert.False(t, s.Config.Enabled(lint.Braces))
	assert.False(t, s.Config.Enabled(lint.KeywordGoto), "preset applies")
}

func TestLoad_PyprojectWithoutTableIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "epita-style.yml", "max_args: 5\n")
	nested := filepath.Join(root, "py")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeConfig(t, nested, "pyproject.toml", "[project]\nname = \"tool\"\n")

	s, err := Load(LoadOptions{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "epita-style.yml"), s.File)
	assert.Equal(t, 5, s.Config.MaxArgs)
}

func TestLoad_ExplicitPyproject(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "pyproject.toml", "[tool.epita-coding-style]\nmax_funcs = 4\n")

	s, err := Load(LoadOptions{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Config.MaxFuncs)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yml")})
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_PresetFromFileSitsBelowFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".epita-style.yml", "preset: 42sh\nmax_lines: 35\n")

	s, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "42sh", s.Preset)
	assert.Equal(t, 35, s.Config.MaxLines, "file wins over preset")
	assert.False(t, s.Config.Enabled(lint.Cast), "preset still applies")
}

func TestLoad_UnknownPreset(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".epita-style.yml", "preset: bogus\n")

	_, err := Load(LoadOptions{Dir: dir})
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".epita-style.yml", "max_lines: 25\n")
	t.Setenv("EPITA_STYLE_MAX_LINES", "28")

	s, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 28, s.Config.MaxLines)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".epita-style.yml", "max_lines: 25\nmax_args: 6\n")
	t.Setenv("EPITA_STYLE_MAX_LINES", "28")

	fs := newFlags(t)
	require.NoError(t, fs.Parse([]string{
		"--max-lines", "12",
		"--preset", "42sh",
		"--enable", "cast,enum.class",
		"--disable", "braces",
		"--exclude", "tests/**",
		"--format", "json",
	}))

	s, err := Load(LoadOptions{Dir: dir, Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, 12, s.Config.MaxLines)
	assert.Equal(t, 6, s.Config.MaxArgs, "unchanged flag does not mask the file")
	assert.True(t, s.Config.Enabled(lint.Cast), "--enable beats the preset")
	assert.True(t, s.Config.Enabled(lint.EnumClass))
	assert.False(t, s.Config.Enabled(lint.Braces))
	assert.Equal(t, []string{"tests/**"}, s.Exclude)
}

func TestLoad_RejectsNonPositiveLimit(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".epita-style.yml", "max_funcs: 0\n")

	_, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_funcs")
}
