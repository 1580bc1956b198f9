// Package batch drives the processor over many inputs, one at a time.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"imagepro/report"
	"imagepro/validation"
)

type Processor interface {
	Run(ctx context.Context, args validation.Args) (report.Report, error)
}

// Result pairs one input with its report, or with the validation error that
// stopped it before processing.
type Result struct {
	Input  string
	Report report.Report
	Err    error
}

type Runner struct {
	proc   Processor
	logger *zap.Logger
}

func NewRunner(proc Processor, logger *zap.Logger) *Runner {
	return &Runner{proc: proc, logger: logger}
}

// ExpandInputs resolves files, directories (non-recursive, JPEG files only)
// and glob patterns into a sorted list without duplicates. Literal paths that
// do not exist are kept so validation can report them.
func ExpandInputs(patterns []string) ([]string, error) {
	var inputs []string

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			entries, err := os.ReadDir(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", pattern, err)
			}
			for _, entry := range entries {
				if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				if validation.IsJPEGExtension(entry.Name()) {
					inputs = append(inputs, filepath.Join(pattern, entry.Name()))
				}
			}
			continue
		}

		if !strings.ContainsAny(pattern, "*?[") {
			inputs = append(inputs, pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				inputs = append(inputs, match)
			}
		}
	}

	slices.Sort(inputs)
	return slices.Compact(inputs), nil
}

// Run processes inputs sequentially with the shared arguments in base. each,
// if non-nil, is called as soon as an input finishes. Run stops early when
// ctx is done.
func (r *Runner) Run(ctx context.Context, inputs []string, base validation.Args, each func(Result)) []Result {
	results := make([]Result, 0, len(inputs))

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Batch interrupted",
				zap.Int("remaining", len(inputs)-len(results)),
				zap.Error(err),
			)
			break
		}

		args := base
		args.Input = input

		rep, err := r.proc.Run(ctx, args)
		res := Result{Input: input, Report: rep, Err: err}
		r.log(res)

		results = append(results, res)
		if each != nil {
			each(res)
		}
	}

	return results
}

func (r *Runner) log(res Result) {
	if res.Err != nil {
		r.logger.Error("Input rejected",
			zap.String("input", res.Input),
			zap.Error(res.Err),
		)
		return
	}

	fields := []zap.Field{
		zap.String("input", res.Input),
		zap.String("job_id", res.Report.JobID),
		zap.String("status", res.Report.Status.String()),
		zap.Int("created", res.Report.Created),
		zap.Int("skipped", res.Report.Skipped),
		zap.Int("failed", res.Report.Failed),
	}
	if res.Report.Status.OK() {
		r.logger.Info("Input processed", fields...)
		return
	}
	if res.Report.Err != nil {
		fields = append(fields, zap.Error(res.Report.Err))
	}
	r.logger.Error("Input processed with errors", fields...)
}
