// Package report classifies the outcomes of one resize job.
package report

import (
	"slices"

	"imagepro/models"
)

type Status int

const (
	StatusSuccess Status = iota + 1
	StatusPartialFailure
	StatusAllSkipped
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialFailure:
		return "partial_failure"
	case StatusAllSkipped:
		return "all_skipped"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// OK reports whether the status maps to a successful exit.
func (s Status) OK() bool {
	return s == StatusSuccess || s == StatusAllSkipped
}

// Report is the sole result of a job. Outcomes are ordered by ascending
// target; Err is set only when Status is StatusFatal.
type Report struct {
	JobID     string
	Source    models.SourceImage
	OutputDir string
	Outcomes  []models.VariantOutcome
	Created   int
	Skipped   int
	Failed    int
	Status    Status
	Err       error
}

// CreatedOutcomes returns the created outcomes in target order.
func (r Report) CreatedOutcomes() []models.VariantOutcome {
	var out []models.VariantOutcome
	for _, o := range r.Outcomes {
		if o.Result == models.ResultCreated {
			out = append(out, o)
		}
	}
	return out
}

// Aggregator builds a Report as outcomes arrive.
type Aggregator struct {
	outcomes []models.VariantOutcome
	fatal    error
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Add(outcome models.VariantOutcome) {
	a.outcomes = append(a.outcomes, outcome)
}

// Fatal marks the job as failed before any variant could be attempted.
// Outcomes already added are discarded.
func (a *Aggregator) Fatal(err error) {
	a.fatal = err
	a.outcomes = nil
}

func (a *Aggregator) Report() Report {
	if a.fatal != nil {
		return Report{Status: StatusFatal, Err: a.fatal}
	}

	outcomes := slices.Clone(a.outcomes)
	slices.SortStableFunc(outcomes, func(x, y models.VariantOutcome) int {
		return x.Variant.Target - y.Variant.Target
	})

	r := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Result {
		case models.ResultCreated:
			r.Created++
		case models.ResultSkipped:
			r.Skipped++
		case models.ResultFailed:
			r.Failed++
		}
	}

	switch {
	case r.Failed > 0:
		r.Status = StatusPartialFailure
	case r.Created == 0:
		r.Status = StatusAllSkipped
	default:
		r.Status = StatusSuccess
	}
	return r
}

// Aggregate classifies a complete set of outcomes.
func Aggregate(outcomes ...models.VariantOutcome) Report {
	a := NewAggregator()
	for _, o := range outcomes {
		a.Add(o)
	}
	return a.Report()
}
