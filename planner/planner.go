// Package planner resolves a job's target sizes against the source's native
// dimensions. It never touches pixel data or the filesystem.
package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"imagepro/models"
)

// Plan returns one variant per target, in ascending target order. Targets
// larger than the native size along the job's axis are skipped.
func Plan(job models.Job, src models.SourceImage) []models.PlannedVariant {
	nativeAxis, nativeOrtho := src.Width, src.Height
	if job.Axis.Axis() == models.AxisHeight {
		nativeAxis, nativeOrtho = src.Height, src.Width
	}

	targets := job.Axis.Targets()
	variants := make([]models.PlannedVariant, 0, len(targets))
	for _, t := range targets {
		v := models.PlannedVariant{
			Target: t,
			Path:   OutputPath(job.OutputDir, job.Source, t),
		}

		if t > nativeAxis {
			v.Status = models.StatusSkipped
			v.SkipReason = fmt.Sprintf("upscale would be required (native %dpx < target %dpx)", nativeAxis, t)
			variants = append(variants, v)
			continue
		}

		ortho := ScaleRound(nativeOrtho, t, nativeAxis)
		if ortho < 1 {
			ortho = 1
		}

		v.Status = models.StatusPlanned
		if job.Axis.Axis() == models.AxisHeight {
			v.Width, v.Height = ortho, t
		} else {
			v.Width, v.Height = t, ortho
		}
		variants = append(variants, v)
	}

	return variants
}

// ScaleRound computes round(value*num/den) with halves rounded away from
// zero, using integer arithmetic so no float error can shift the result.
// Inputs are expected to be non-negative with den > 0.
func ScaleRound(value, num, den int) int {
	p := int64(value) * int64(num)
	return int((2*p + int64(den)) / (2 * int64(den)))
}

// OutputPath names a variant {basename}_{target}{ext} inside dir, keeping the
// source extension's original case.
func OutputPath(dir, source string, target int) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, target, ext))
}
