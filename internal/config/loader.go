package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "EPITA_STYLE_"

// Rule ids contain dots, so keys are split on slashes instead.
const delim = "/"

// maxUpwardSearchLevels limits how far up the tree a config file is searched.
const maxUpwardSearchLevels = 10

// ConfigFileNames are the file names searched for, in priority order. A
// pyproject.toml only counts when it has a [tool.epita-coding-style] table.
var ConfigFileNames = []string{
	".epita-style.yml",
	".epita-style.yaml",
	".epita-style.toml",
	"epita-style.yml",
	"epita-style.yaml",
	"epita-style.toml",
	PyprojectFile,
}

const (
	// PyprojectFile is the Python project file that may carry a config table.
	PyprojectFile = "pyproject.toml"
	// pyprojectTable is the key of that table, split on delim.
	pyprojectTable = "tool" + delim + "epita-coding-style"
)

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// flagKeys maps CLI flag names to config keys. Other flags are ignored by
// the loader.
var flagKeys = map[string]string{
	"max-lines":   "max_lines",
	"max-args":    "max_args",
	"max-funcs":   "max_funcs",
	"max-globals": "max_globals",
	"preset":      "preset",
	"workers":     "workers",
	"formatter":   "formatter",
	"exclude":     "exclude",
}

// Settings is the fully resolved run configuration.
type Settings struct {
	Config    Config
	Preset    string
	Exclude   []string // doublestar patterns, relative to the walked root
	Formatter string   // clang-format command line
	Workers   int
	File      string // config file used, empty if none
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	ConfigFile string // explicit path; skips the upward search
	Dir        string // search start; defaults to the working directory
	Flags      *pflag.FlagSet
	Logger     *slog.Logger
}

// Load resolves the configuration. Precedence from lowest to highest:
// defaults, preset, config file, environment, changed flags. The enable
// and disable flags are applied last.
func Load(opts LoadOptions) (*Settings, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path, err := resolveConfigFile(opts.ConfigFile, opts.Dir)
	if err != nil {
		return nil, err
	}

	user := koanf.New(delim)
	if path != "" {
		fk, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := user.Merge(fk); err != nil {
			return nil, fmt.Errorf("merging config file %s: %w", path, err)
		}
		logger.Debug("config file loaded", "path", path)
	}

	// EPITA_STYLE_MAX_LINES -> max_lines
	if err := user.Load(env.Provider(EnvPrefix, delim, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := user.Load(posflag.ProviderWithFlag(opts.Flags, delim, user, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	// The preset can come from any user layer but sits below all of them.
	presetName := user.String("preset")
	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(defaultValues(), delim), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if presetName != "" {
		p, err := LookupPreset(presetName)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(p.values(), delim), nil); err != nil {
			return nil, fmt.Errorf("loading preset %s: %w", presetName, err)
		}
	}
	if err := k.Merge(user); err != nil {
		return nil, fmt.Errorf("merging config: %w", err)
	}

	cfg := Default()
	cfg.MaxLines = k.Int("max_lines")
	cfg.MaxArgs = k.Int("max_args")
	cfg.MaxFuncs = k.Int("max_funcs")
	cfg.MaxGlobals = k.Int("max_globals")

	rules := k.Cut("rules")
	for _, name := range rules.Keys() {
		id, ok := lint.ParseRuleID(name)
		if !ok {
			logger.Warn("unknown rule in config, ignored", "rule", name)
			continue
		}
		cfg = cfg.With(id, rules.Bool(name))
	}

	if opts.Flags != nil {
		cfg = applyRuleFlags(cfg, opts.Flags, logger)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Settings{
		Config:    cfg,
		Preset:    presetName,
		Exclude:   stringList(k, "exclude"),
		Formatter: k.String("formatter"),
		Workers:   k.Int("workers"),
		File:      path,
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	return s, nil
}

// loadConfigFile parses a YAML or TOML config file. For pyproject.toml only
// the [tool.epita-coding-style] table is returned.
func loadConfigFile(path string) (*koanf.Koanf, error) {
	k := koanf.New(delim)
	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		parser = toml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if filepath.Base(path) == PyprojectFile {
		return k.Cut(pyprojectTable), nil
	}
	return k, nil
}

// hasPyprojectTable reports whether the pyproject.toml at path configures
// the checker.
func hasPyprojectTable(path string) bool {
	k := koanf.New(delim)
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return false
	}
	return k.Exists(pyprojectTable)
}

func defaultValues() map[string]any {
	d := Default()
	rules := make(map[string]any, lint.NumRules)
	for _, r := range lint.All() {
		rules[r.Name] = d.Rules[r.ID]
	}
	return map[string]any{
		"max_lines":   d.MaxLines,
		"max_args":    d.MaxArgs,
		"max_funcs":   d.MaxFuncs,
		"max_globals": d.MaxGlobals,
		"formatter":   "clang-format",
		"workers":     0,
		"rules":       rules,
	}
}

// applyRuleFlags applies --enable then --disable, so disable wins when a
// rule is named in both.
func applyRuleFlags(cfg Config, flags *pflag.FlagSet, logger *slog.Logger) Config {
	for _, f := range []struct {
		name string
		on   bool
	}{{"enable", true}, {"disable", false}} {
		if flags.Lookup(f.name) == nil {
			continue
		}
		names, err := flags.GetStringSlice(f.name)
		if err != nil {
			continue
		}
		for _, name := range names {
			id, ok := lint.ParseRuleID(strings.TrimSpace(name))
			if !ok {
				logger.Warn("unknown rule in --"+f.name+", ignored", "rule", name)
				continue
			}
			cfg = cfg.With(id, f.on)
		}
	}
	return cfg
}

// stringList reads a list that may arrive as a YAML sequence or as a
// comma-separated string from the environment.
func stringList(k *koanf.Koanf, key string) []string {
	var out []string
	switch v := k.Get(key).(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case nil:
	default:
		for _, s := range k.Strings(key) {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func resolveConfigFile(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil
		}
		dir = cwd
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return findConfigUpward(dir), nil
}

// findConfigUpward searches upward from startDir for a config file.
// Returns empty string if none is found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			st, err := os.Stat(candidate)
			if err != nil || st.IsDir() {
				continue
			}
			if name == PyprojectFile && !hasPyprojectTable(candidate) {
				continue
			}
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
