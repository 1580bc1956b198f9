package models

import (
	"slices"
)

type Axis int

const (
	AxisWidth Axis = iota + 1
	AxisHeight
)

func (a Axis) String() string {
	switch a {
	case AxisWidth:
		return "width"
	case AxisHeight:
		return "height"
	default:
		return "unknown"
	}
}

// AxisSpec carries exactly one axis and its target sizes. The zero value has
// no axis and is rejected by the validator.
type AxisSpec struct {
	axis    Axis
	targets []int
}

// Widths builds a width-driven spec. Targets are de-duplicated and sorted.
func Widths(targets ...int) AxisSpec {
	return AxisSpec{axis: AxisWidth, targets: normalizeTargets(targets)}
}

// Heights builds a height-driven spec. Targets are de-duplicated and sorted.
func Heights(targets ...int) AxisSpec {
	return AxisSpec{axis: AxisHeight, targets: normalizeTargets(targets)}
}

func (s AxisSpec) Axis() Axis {
	return s.axis
}

// Targets returns a copy of the ascending target list.
func (s AxisSpec) Targets() []int {
	return slices.Clone(s.targets)
}

func (s AxisSpec) IsZero() bool {
	return s.axis == 0
}

func normalizeTargets(targets []int) []int {
	out := slices.Clone(targets)
	slices.Sort(out)
	return slices.Compact(out)
}

type ExistingPolicy string

const (
	ExistingOverwrite ExistingPolicy = "overwrite"
	ExistingSkip      ExistingPolicy = "skip"
	ExistingFail      ExistingPolicy = "fail"
)

func ParseExistingPolicy(s string) (ExistingPolicy, bool) {
	switch p := ExistingPolicy(s); p {
	case ExistingOverwrite, ExistingSkip, ExistingFail:
		return p, true
	case "":
		return ExistingOverwrite, true
	default:
		return "", false
	}
}

const (
	DefaultQuality   = 90
	DefaultOutputDir = "./resized/"
)

// Job is one validated resize invocation. It is built once by the validator
// and never mutated afterwards.
type Job struct {
	Source     string
	Axis       AxisSpec
	Quality    int
	OutputDir  string
	OnExisting ExistingPolicy
}

type SourceImage struct {
	Path   string
	Width  int
	Height int
	Format string
}
