package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dusk-indust/epitastyle/internal/checker"
	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/discover"
	"github.com/dusk-indust/epitastyle/internal/format"
	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/report"
	"github.com/dusk-indust/epitastyle/internal/runner"
	"github.com/dusk-indust/epitastyle/internal/watch"
)

// checkOptions holds the flags of the check command that the config
// loader does not read itself.
type checkOptions struct {
	configFile string
	format     string
	watch      bool
	quiet      bool
	noColor    bool
	showSource bool
	progress   bool
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &checkOptions{}
	root := &cobra.Command{
		Use:   "epita-style [flags] [path...]",
		Short: "Check C and C++ sources against the EPITA coding style",
		Long: `epita-style checks .c/.h and .cc/.hh/.hxx files against the EPITA coding
style and reports every violation as path:line:column: [SEVERITY] rule: message.

Directories are walked recursively. With no path the current directory is
checked. The exit status is 1 when a MAJOR violation is found.`,
		Example: `  # Check the current project
  epita-style

  # Check two files with the 42sh preset
  epita-style --preset 42sh src/main.c src/exec.c

  # Re-check files as they change
  epita-style --watch src/`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	addCheckFlags(root.Flags(), opts)

	root.AddCommand(newCheckCmd(stdout, stderr))
	root.AddCommand(newRulesCmd(stdout))
	root.AddCommand(newMCPCmd(stderr))
	root.AddCommand(newVersionCmd(stdout))
	return root
}

func newCheckCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [flags] [path...]",
		Short: "Check files and directories (the default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts, stdout, stderr)
		},
	}
	addCheckFlags(cmd.Flags(), opts)
	return cmd
}

// addConfigFlags registers the flags the config loader reads.
func addConfigFlags(fs *pflag.FlagSet, configFile *string) {
	fs.StringVarP(configFile, "config", "c", "", "config file (default: .epita-style.yml searched upward)")
	fs.String("preset", "", "rule preset (42sh)")
	fs.Int("max-lines", config.DefaultMaxLines, "maximum lines in a function body")
	fs.Int("max-args", config.DefaultMaxArgs, "maximum function parameters")
	fs.Int("max-funcs", config.DefaultMaxFuncs, "maximum exported functions per file")
	fs.Int("max-globals", config.DefaultMaxGlobals, "maximum exported globals per file")
	fs.StringSlice("enable", nil, "rules to enable (repeatable, comma-separated)")
	fs.StringSlice("disable", nil, "rules to disable (repeatable, comma-separated)")
	fs.StringSlice("exclude", nil, "doublestar globs of paths to skip")
	fs.String("formatter", format.DefaultCommand, "clang-format command line for the format rule")
	fs.Int("workers", 0, "files checked in parallel (default: number of CPUs)")
}

func addCheckFlags(fs *pflag.FlagSet, opts *checkOptions) {
	addConfigFlags(fs, &opts.configFile)
	fs.StringVarP(&opts.format, "format", "f", string(report.FormatText), "output format: text, json, yaml")
	fs.BoolVarP(&opts.watch, "watch", "w", false, "re-check files when they change")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print the summary only")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&opts.showSource, "show-source", false, "print the offending source line")
	fs.BoolVar(&opts.progress, "progress", false, "report per-file progress on stderr")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
}

// newChecker builds the checker for settings. A missing formatter binary
// turns the format rule into a no-op.
func newChecker(settings *config.Settings, logger *slog.Logger) (*checker.Checker, error) {
	opts := []checker.Option{checker.WithLogger(logger)}
	if settings.Config.Enabled(lint.Format) {
		f, err := format.New(settings.Formatter, format.WithLogger(logger))
		switch {
		case errors.Is(err, format.ErrNotInstalled):
			logger.Debug("formatter not installed, format rule skipped", "command", settings.Formatter)
		case err != nil:
			return nil, err
		default:
			opts = append(opts, checker.WithFormatter(f))
		}
	}
	return checker.New(opts...), nil
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose)

	outFormat, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	settings, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Flags:      cmd.Flags(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	if settings.File != "" {
		logger.Debug("using config file", "path", settings.File)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := discover.Files(paths, discover.Options{Exclude: settings.Exclude, Logger: logger})
	if err != nil {
		return err
	}

	c, err := newChecker(settings, logger)
	if err != nil {
		return err
	}

	textOpts := report.TextOptions{
		Color:      report.ColorEnabled(stdout, opts.noColor),
		ShowSource: opts.showSource,
		Quiet:      opts.quiet,
	}
	check := func(ctx context.Context, files []string) ([]lint.Violation, error) {
		var onProgress func(runner.Event)
		if opts.progress {
			rep := runner.NewReporter(len(files) * 3)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for ev := range rep.Subscribe() {
					fmt.Fprintln(stderr, runner.FormatEvent(ev))
				}
			}()
			defer func() {
				rep.Close()
				<-done
			}()
			onProgress = rep.Emit
		}
		results, err := runner.New(c, settings.Workers, onProgress).Run(ctx, files, settings.Config)
		if err != nil {
			return nil, err
		}
		vs := runner.Flatten(results)
		return vs, report.Write(stdout, outFormat, len(files), vs, textOpts)
	}

	ctx := cmd.Context()
	vs, err := check(ctx, files)
	if err != nil {
		return err
	}

	if opts.watch {
		return watchAndCheck(ctx, paths, settings, logger, check)
	}
	if lint.HasMajor(vs) {
		return errMajor
	}
	return nil
}

func watchAndCheck(
	ctx context.Context,
	paths []string,
	settings *config.Settings,
	logger *slog.Logger,
	check func(context.Context, []string) ([]lint.Violation, error),
) error {
	w, err := watch.New(paths, watch.Options{Exclude: settings.Exclude, Logger: logger})
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching for changes", "paths", paths)
	return w.Run(ctx, func(ctx context.Context, changed []string) {
		if _, err := check(ctx, changed); err != nil && ctx.Err() == nil {
			logger.Error("check failed", "err", err)
		}
	})
}
