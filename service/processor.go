package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"imagepro/converter"
	"imagepro/models"
	"imagepro/planner"
	"imagepro/pool"
	"imagepro/report"
	"imagepro/validation"
)

// Processor runs one job through probe, plan, decode, render and aggregate.
// It never logs or prints; everything it learns ends up in the Report.
type Processor struct {
	converter   *converter.Converter
	concurrency int
}

type Option func(*Processor)

// WithConcurrency sets how many variants of one job render at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = n
	}
}

func NewProcessor(conv *converter.Converter, opts ...Option) *Processor {
	p := &Processor{
		converter:   conv,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run validates args and processes the resulting job. Validation failures
// are returned as errors; everything after that is carried by the Report.
func (p *Processor) Run(ctx context.Context, args validation.Args) (report.Report, error) {
	job, err := validation.Validate(args)
	if err != nil {
		return report.Report{}, err
	}
	return p.Process(ctx, job), nil
}

func (p *Processor) Process(ctx context.Context, job models.Job) report.Report {
	agg := report.NewAggregator()

	src, err := p.converter.Probe(job.Source)
	if err != nil {
		agg.Fatal(err)
		return p.finish(agg, job, models.SourceImage{Path: job.Source})
	}

	// Decode up front so a damaged source is fatal even when every
	// variant would be skipped.
	decoded, err := p.converter.Decode(src)
	if err != nil {
		agg.Fatal(err)
		return p.finish(agg, job, src)
	}

	variants := planner.Plan(job, src)
	outcomes := make([]models.VariantOutcome, len(variants))

	var pending []int
	for i, v := range variants {
		if v.Status == models.StatusSkipped {
			outcomes[i] = models.Skipped(v)
			continue
		}
		if o, done := applyExistingPolicy(job.OnExisting, v); done {
			outcomes[i] = o
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		wp := pool.NewWorkerPool(p.concurrency)
		for _, i := range pending {
			i := i
			wp.Submit(ctx, func(ctx context.Context) {
				outcomes[i] = recoverRender(variants[i], func() models.VariantOutcome {
					return p.converter.Render(decoded, variants[i], job.Quality)
				})
			})
		}
		wp.Wait()

		for _, i := range pending {
			if outcomes[i].Result == 0 {
				cause := ctx.Err()
				if cause == nil {
					cause = errors.New("render not attempted")
				}
				outcomes[i] = models.Failed(variants[i], models.IOError(variants[i].Path, "render not attempted", cause))
			}
		}
	}

	for _, o := range outcomes {
		agg.Add(o)
	}
	return p.finish(agg, job, src)
}

// recoverRender runs render and turns a panic into a failed outcome for v
// alone, so one bad variant cannot take down its siblings.
func recoverRender(v models.PlannedVariant, render func() models.VariantOutcome) (outcome models.VariantOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = models.Failed(v, models.IOError(v.Path, "render panicked", fmt.Errorf("%v", r)))
		}
	}()
	return render()
}

func (p *Processor) finish(agg *report.Aggregator, job models.Job, src models.SourceImage) report.Report {
	r := agg.Report()
	r.JobID = uuid.NewString()
	r.Source = src
	r.OutputDir = job.OutputDir
	return r
}

func applyExistingPolicy(policy models.ExistingPolicy, v models.PlannedVariant) (models.VariantOutcome, bool) {
	if policy == models.ExistingOverwrite || policy == "" {
		return models.VariantOutcome{}, false
	}
	if _, err := os.Stat(v.Path); err != nil {
		return models.VariantOutcome{}, false
	}

	if policy == models.ExistingSkip {
		v.Status = models.StatusSkipped
		v.SkipReason = models.ErrOutputExists.Error()
		return models.Skipped(v), true
	}
	return models.Failed(v, models.IOError(v.Path, "refusing to overwrite", models.ErrOutputExists)), true
}
