// Package srcset turns a job report into responsive-image markup.
package srcset

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"

	"imagepro/report"
)

var ErrNoCandidates = errors.New("srcset: report has no created variants")

var imgTemplate = template.Must(template.New("img").Parse(
	`<img src="{{.Src}}" srcset="{{.Srcset}}"{{if .Sizes}} sizes="{{.Sizes}}"{{end}} width="{{.Width}}" height="{{.Height}}" alt="{{.Alt}}">`,
))

// Build returns the srcset attribute value for every created variant, using
// each variant's real pixel width as its descriptor. prefix is prepended to
// the escaped file name; it may be empty.
func Build(r report.Report, prefix string) (string, error) {
	created := r.CreatedOutcomes()
	if len(created) == 0 {
		return "", ErrNoCandidates
	}

	parts := make([]string, 0, len(created))
	for _, o := range created {
		parts = append(parts, fmt.Sprintf("%s %dw", candidateURL(prefix, o.Variant.Path), o.Variant.Width))
	}
	return strings.Join(parts, ", "), nil
}

type imgData struct {
	Src    string
	Srcset template.Srcset
	Sizes  string
	Width  int
	Height int
	Alt    string
}

// ImgTag renders an <img> element whose src is the largest created variant.
func ImgTag(r report.Report, prefix, alt, sizes string) (string, error) {
	set, err := Build(r, prefix)
	if err != nil {
		return "", err
	}

	created := r.CreatedOutcomes()
	largest := created[len(created)-1].Variant

	var b strings.Builder
	err = imgTemplate.Execute(&b, imgData{
		Src:    candidateURL(prefix, largest.Path),
		Srcset: template.Srcset(set),
		Sizes:  sizes,
		Width:  largest.Width,
		Height: largest.Height,
		Alt:    alt,
	})
	if err != nil {
		return "", fmt.Errorf("srcset: render img tag: %w", err)
	}
	return b.String(), nil
}

func candidateURL(prefix, path string) string {
	name := url.PathEscape(filepath.Base(path))
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
