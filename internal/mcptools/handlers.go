package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/epitastyle/internal/checker"
	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/discover"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/report"
	"github.com/dusk-indust/epitastyle/internal/runner"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// StyleService holds the checker and base configuration used by the MCP
// tool handlers.
type StyleService struct {
	checker *checker.Checker
	cfg     config.Config
	exclude []string
	workers int
	root    string // relative paths are resolved against it
	logger  *slog.Logger
}

// ServiceOptions configures a StyleService.
type ServiceOptions struct {
	Config  config.Config
	Exclude []string
	Workers int
	Root    string
	Logger  *slog.Logger
}

// NewStyleService creates a StyleService around c.
func NewStyleService(c *checker.Checker, opts ServiceOptions) *StyleService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StyleService{
		checker: c,
		cfg:     opts.Config,
		exclude: opts.Exclude,
		workers: opts.Workers,
		root:    opts.Root,
		logger:  logger.With("component", "mcp"),
	}
}

// configFor applies the per-call overrides to the base configuration.
func (s *StyleService) configFor(o ruleOverrides) (config.Config, error) {
	cfg := s.cfg
	if o.preset != "" {
		p, err := config.LookupPreset(o.preset)
		if err != nil {
			return cfg, err
		}
		cfg = p.Apply(cfg)
	}
	for _, set := range []struct {
		names []string
		on    bool
	}{{o.enable, true}, {o.disable, false}} {
		for _, name := range set.names {
			id, ok := lint.ParseRuleID(strings.TrimSpace(name))
			if !ok {
				return cfg, fmt.Errorf("unknown rule %q", name)
			}
			cfg = cfg.With(id, set.on)
		}
	}
	return cfg, nil
}

func (s *StyleService) resolve(path string) string {
	if s.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func unsupported(name string) error {
	return fmt.Errorf("unsupported file type %q (want %s)", name, strings.Join(syntax.Extensions(), ", "))
}

func nonNil(vs []lint.Violation) []lint.Violation {
	if vs == nil {
		return []lint.Violation{}
	}
	return vs
}

// CheckFile checks one file, either read from path or given inline as
// content with a filename.
func (s *StyleService) CheckFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckFileInput,
) (*mcp.CallToolResult, CheckFileOutput, error) {
	cfg, err := s.configFor(input.overrides())
	if err != nil {
		return nil, CheckFileOutput{}, err
	}

	var (
		name string
		vs   []lint.Violation
	)
	switch {
	case input.Content != "":
		if input.Filename == "" {
			return nil, CheckFileOutput{}, errors.New("filename is required with content")
		}
		name = input.Filename
		if !syntax.Supported(name) {
			return nil, CheckFileOutput{}, unsupported(name)
		}
		vs = s.checker.CheckSource(ctx, name, []byte(input.Content), cfg)
	case input.Path != "":
		name = s.resolve(input.Path)
		if !syntax.Supported(name) {
			return nil, CheckFileOutput{}, unsupported(name)
		}
		vs = s.checker.CheckFile(ctx, name, cfg)
	default:
		return nil, CheckFileOutput{}, errors.New("path or content is required")
	}

	lang, _ := syntax.FromPath(name)
	s.logger.Debug("check_file", "file", name, "violations", len(vs))
	return nil, CheckFileOutput{
		File:       name,
		Language:   lang.String(),
		Summary:    report.Summarize(1, vs),
		Violations: nonNil(vs),
	}, nil
}

// CheckPaths discovers every source file under the given paths, checks
// them in parallel and returns per-file and total counts.
func (s *StyleService) CheckPaths(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckPathsInput,
) (*mcp.CallToolResult, CheckPathsOutput, error) {
	if len(input.Paths) == 0 {
		return nil, CheckPathsOutput{}, errors.New("paths is required")
	}
	cfg, err := s.configFor(input.overrides())
	if err != nil {
		return nil, CheckPathsOutput{}, err
	}

	paths := make([]string, len(input.Paths))
	for i, p := range input.Paths {
		paths[i] = s.resolve(p)
	}
	files, err := discover.Files(paths, discover.Options{
		Exclude: append(append([]string{}, s.exclude...), input.Exclude...),
		Logger:  s.logger,
	})
	if err != nil {
		return nil, CheckPathsOutput{}, err
	}

	results, err := runner.New(s.checker, s.workers, nil).Run(ctx, files, cfg)
	if err != nil {
		return nil, CheckPathsOutput{}, fmt.Errorf("check: %w", err)
	}

	out := CheckPathsOutput{Files: make([]FileSummary, 0, len(results))}
	for _, res := range results {
		major, minor := lint.Count(res.Violations)
		out.Files = append(out.Files, FileSummary{Path: res.Path, Major: major, Minor: minor})
	}
	out.Violations = nonNil(runner.Flatten(results))
	out.Summary = report.Summarize(len(files), out.Violations)
	s.logger.Debug("check_paths", "files", len(files), "major", out.Summary.Major, "minor", out.Summary.Minor)
	return nil, out, nil
}

// ListRules returns the rule catalog, optionally narrowed to one language.
func (s *StyleService) ListRules(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListRulesInput,
) (*mcp.CallToolResult, ListRulesOutput, error) {
	rules, err := lint.ForLanguage(input.Language)
	if err != nil {
		return nil, ListRulesOutput{}, err
	}
	return nil, ListRulesOutput{Rules: rules, Total: len(rules)}, nil
}
