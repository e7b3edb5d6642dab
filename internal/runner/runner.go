// Package runner checks many files in parallel with a bounded worker pool.
package runner

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/epitastyle/internal/config"
	"github.com/dusk-indust/epitastyle/internal/lint"
)

// FileChecker checks a single file. *checker.Checker satisfies it.
type FileChecker interface {
	CheckFile(ctx context.Context, path string, cfg config.Config) []lint.Violation
}

// Result holds the violations of one file.
type Result struct {
	Path       string
	Violations []lint.Violation
}

// Runner dispatches files to a FileChecker across a bounded number of
// goroutines.
type Runner struct {
	checker    FileChecker
	workers    int
	onProgress func(Event)
	logger     *slog.Logger
}

// New creates a Runner. workers <= 0 means runtime.NumCPU(). onProgress is
// called from worker goroutines and may be nil.
func New(checker FileChecker, workers int, onProgress func(Event)) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		checker:    checker,
		workers:    workers,
		onProgress: onProgress,
		logger:     slog.Default().With("component", "runner"),
	}
}

// Workers returns the pool size.
func (r *Runner) Workers() int {
	return r.workers
}

// Run checks every path and returns one Result per path, in input order.
// A file that fails to read is a file.read violation in its Result, never
// an error. Cancelling ctx stops scheduling; the returned error is then
// ctx.Err() and Results of unscheduled files carry no violations.
func (r *Runner) Run(ctx context.Context, paths []string, cfg config.Config) ([]Result, error) {
	results := make([]Result, len(paths))
	for i, p := range paths {
		results[i].Path = p
		r.emit(Event{Path: p, Index: i, Total: len(paths), Status: StatusPending})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	r.logger.Debug("run", "files", len(paths), "workers", r.workers)

	for i, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.emit(Event{Path: p, Index: i, Total: len(paths), Status: StatusChecking})

			vs := r.checker.CheckFile(gctx, p, cfg)
			results[i].Violations = vs

			ev := Event{Path: p, Index: i, Total: len(paths), Status: StatusDone, Violations: len(vs)}
			if len(vs) == 1 && vs[0].Rule == lint.ReadRule {
				ev.Status = StatusFailed
				ev.Message = vs[0].Message
			}
			r.emit(ev)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (r *Runner) emit(ev Event) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}

// Flatten concatenates the violations of every result in order.
func Flatten(results []Result) []lint.Violation {
	var out []lint.Violation
	for _, res := range results {
		out = append(out, res.Violations...)
	}
	return out
}
