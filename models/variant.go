package models

type VariantStatus string

const (
	StatusPlanned VariantStatus = "planned"
	StatusSkipped VariantStatus = "skipped"
)

// PlannedVariant is one target size resolved against the source dimensions.
type PlannedVariant struct {
	Target     int
	Width      int
	Height     int
	Path       string
	Status     VariantStatus
	SkipReason string
}

type Result int

const (
	ResultCreated Result = iota + 1
	ResultSkipped
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultCreated:
		return "created"
	case ResultSkipped:
		return "skipped"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type VariantOutcome struct {
	Variant  PlannedVariant
	Result   Result
	ByteSize int64
	Err      error
}

func Created(v PlannedVariant, size int64) VariantOutcome {
	return VariantOutcome{Variant: v, Result: ResultCreated, ByteSize: size}
}

func Skipped(v PlannedVariant) VariantOutcome {
	return VariantOutcome{Variant: v, Result: ResultSkipped}
}

func Failed(v PlannedVariant, err error) VariantOutcome {
	return VariantOutcome{Variant: v, Result: ResultFailed, Err: err}
}
