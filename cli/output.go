package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"imagepro/batch"
	"imagepro/models"
	"imagepro/report"
	"imagepro/srcset"
)

type printer struct {
	stdout    io.Writer
	stderr    io.Writer
	srcset    bool
	urlPrefix string
}

func (p *printer) result(res batch.Result) {
	if res.Err != nil {
		fmt.Fprintf(p.stderr, "Error: %v\n", res.Err)
		return
	}
	p.report(res.Report)
}

func (p *printer) report(r report.Report) {
	name := filepath.Base(r.Source.Path)
	if r.Status == report.StatusFatal {
		fmt.Fprintf(p.stderr, "Error: %v\n", r.Err)
		return
	}

	fmt.Fprintf(p.stdout, "Processing: %s (%dx%d)\n", name, r.Source.Width, r.Source.Height)
	fmt.Fprintf(p.stdout, "Output directory: %s\n\n", r.OutputDir)

	for _, o := range r.Outcomes {
		switch o.Result {
		case models.ResultCreated:
			fmt.Fprintf(p.stdout, "✓ Created: %s (%dx%d, %s)\n",
				filepath.Base(o.Variant.Path), o.Variant.Width, o.Variant.Height, formatSize(o.ByteSize))
		case models.ResultSkipped:
			fmt.Fprintf(p.stdout, "⚠ Skipped %dpx: %s\n", o.Variant.Target, o.Variant.SkipReason)
		case models.ResultFailed:
			fmt.Fprintf(p.stderr, "✗ Failed %dpx: %v\n", o.Variant.Target, o.Err)
		}
	}
	fmt.Fprintln(p.stdout)

	switch {
	case r.Created > 0:
		fmt.Fprintf(p.stdout, "Successfully created %d image(s) from %s\n", r.Created, name)
	case r.Failed == 0:
		fmt.Fprintln(p.stdout, "Warning: No images created (all sizes would require upscaling)")
	default:
		fmt.Fprintf(p.stdout, "No images created from %s\n", name)
	}

	if p.srcset && r.Created > 0 {
		alt := strings.TrimSuffix(name, filepath.Ext(name))
		tag, err := srcset.ImgTag(r, p.urlPrefix, alt, "")
		if err != nil {
			fmt.Fprintf(p.stderr, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(p.stdout, "\n%s\n", tag)
	}
}

func formatSize(n int64) string {
	return fmt.Sprintf("%.0f KB", float64(n)/1024)
}
