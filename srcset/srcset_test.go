package srcset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagepro/models"
	"imagepro/report"
)

func created(path string, w, h int) models.VariantOutcome {
	return models.Created(models.PlannedVariant{Target: w, Width: w, Height: h, Path: path, Status: models.StatusPlanned}, 1024)
}

func TestBuild(t *testing.T) {
	r := report.Aggregate(
		created("resized/photo_600.jpg", 600, 400),
		created("resized/photo_300.jpg", 300, 200),
		models.Skipped(models.PlannedVariant{Target: 4000, Status: models.StatusSkipped}),
	)

	got, err := Build(r, "/img/")
	require.NoError(t, err)
	assert.Equal(t, "/img/photo_300.jpg 300w, /img/photo_600.jpg 600w", got)

	got, err = Build(r, "")
	require.NoError(t, err)
	assert.Equal(t, "photo_300.jpg 300w, photo_600.jpg 600w", got)
}

func TestBuild_HeightModeUsesPixelWidth(t *testing.T) {
	r := report.Aggregate(created("out/p_400.jpg", 533, 400))

	got, err := Build(r, "")
	require.NoError(t, err)
	assert.Equal(t, "p_400.jpg 533w", got)
}

func TestBuild_EscapesNames(t *testing.T) {
	r := report.Aggregate(created("out/my photo,1_300.jpg", 300, 200))

	got, err := Build(r, "")
	require.NoError(t, err)
	assert.Equal(t, "my%20photo%2C1_300.jpg 300w", got)
}

func TestBuild_NoCandidates(t *testing.T) {
	r := report.Aggregate(models.Skipped(models.PlannedVariant{Target: 800}))

	_, err := Build(r, "")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestImgTag(t *testing.T) {
	r := report.Aggregate(
		created("resized/photo_300.jpg", 300, 200),
		created("resized/photo_600.jpg", 600, 400),
	)

	got, err := ImgTag(r, "/img", `A "quoted" sunset`, "(max-width: 600px) 100vw, 600px")
	require.NoError(t, err)

	assert.Contains(t, got, `src="/img/photo_600.jpg"`)
	assert.Contains(t, got, `srcset="/img/photo_300.jpg 300w, /img/photo_600.jpg 600w"`)
	assert.Contains(t, got, `sizes="(max-width: 600px) 100vw, 600px"`)
	assert.Contains(t, got, `width="600" height="400"`)
	assert.Contains(t, got, `alt="A &#34;quoted&#34; sunset"`)
}
