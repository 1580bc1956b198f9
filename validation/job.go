package validation

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"imagepro/models"
)

// Args are the raw, unvalidated inputs for one job. Width and Height are
// comma-separated size lists; nil means the flag was not given at all.
type Args struct {
	Input      string
	Width      *string
	Height     *string
	Quality    *int
	OutputDir  string
	OnExisting string
}

// Validate turns Args into an immutable Job. Argument checks run before any
// filesystem access so a malformed invocation never touches the disk.
func Validate(args Args) (models.Job, error) {
	opts, err := validateOptions(args)
	if err != nil {
		return models.Job{}, err
	}

	if strings.TrimSpace(args.Input) == "" {
		return models.Job{}, models.InvalidArgumentf("input path is required")
	}
	if !IsJPEGExtension(args.Input) {
		return models.Job{}, models.InvalidArgumentf("unsupported format %q: only .jpg and .jpeg are supported", args.Input)
	}

	if err := checkReadable(args.Input); err != nil {
		return models.Job{}, err
	}

	opts.Source = args.Input
	return opts, nil
}

// ValidateOptions checks everything in args except Input. Long-running
// callers use it to reject bad settings before any input exists.
func ValidateOptions(args Args) error {
	_, err := validateOptions(args)
	return err
}

func validateOptions(args Args) (models.Job, error) {
	axis, err := parseAxis(args.Width, args.Height)
	if err != nil {
		return models.Job{}, err
	}

	quality := models.DefaultQuality
	if args.Quality != nil {
		quality = *args.Quality
	}
	if quality < 1 || quality > 100 {
		return models.Job{}, models.InvalidArgumentf("quality must be between 1 and 100 (got %d)", quality)
	}

	policy, ok := models.ParseExistingPolicy(args.OnExisting)
	if !ok {
		return models.Job{}, models.InvalidArgumentf("unknown on-existing policy %q (want overwrite, skip or fail)", args.OnExisting)
	}

	outputDir := args.OutputDir
	if outputDir == "" {
		outputDir = models.DefaultOutputDir
	}

	return models.Job{
		Axis:       axis,
		Quality:    quality,
		OutputDir:  outputDir,
		OnExisting: policy,
	}, nil
}

func parseAxis(width, height *string) (models.AxisSpec, error) {
	switch {
	case width != nil && height != nil:
		return models.AxisSpec{}, models.InvalidArgumentf("cannot specify both width and height")
	case width != nil:
		sizes, err := ParseSizes(*width)
		if err != nil {
			return models.AxisSpec{}, err
		}
		return models.Widths(sizes...), nil
	case height != nil:
		sizes, err := ParseSizes(*height)
		if err != nil {
			return models.AxisSpec{}, err
		}
		return models.Heights(sizes...), nil
	default:
		return models.AxisSpec{}, models.InvalidArgumentf("must specify either width or height")
	}
}

// ParseSizes parses a comma-separated list of positive integers.
func ParseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, models.InvalidArgumentf("size list is empty")
	}

	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, models.InvalidArgumentf("size %q is not an integer", part)
		}
		if n <= 0 {
			return nil, models.InvalidArgumentf("size %d must be a positive integer", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return models.InputNotFound(path, err)
	}
	if info.IsDir() {
		return models.InputNotFound(path, errors.New("is a directory"))
	}

	f, err := os.Open(path)
	if err != nil {
		return models.InputNotFound(path, err)
	}
	return f.Close()
}
