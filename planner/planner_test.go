package planner

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"imagepro/models"
)

func TestPlan_WidthMode(t *testing.T) {
	job := models.Job{
		Source:    "/photos/sunset.jpg",
		Axis:      models.Widths(1200, 300, 900, 600),
		Quality:   90,
		OutputDir: "out",
	}
	src := models.SourceImage{Width: 2400, Height: 1600}

	variants := Plan(job, src)

	want := []struct{ w, h int }{{300, 200}, {600, 400}, {900, 600}, {1200, 800}}
	if len(variants) != len(want) {
		t.Fatalf("Expected %d variants, got %d", len(want), len(variants))
	}
	for i, v := range variants {
		if v.Status != models.StatusPlanned {
			t.Errorf("variant %d: expected planned, got %s", i, v.Status)
		}
		if v.Width != want[i].w || v.Height != want[i].h {
			t.Errorf("variant %d: expected %dx%d, got %dx%d", i, want[i].w, want[i].h, v.Width, v.Height)
		}
		wantPath := filepath.Join("out", "sunset_"+strconv.Itoa(want[i].w)+".jpg")
		if v.Path != wantPath {
			t.Errorf("variant %d: expected path %s, got %s", i, wantPath, v.Path)
		}
	}
}

func TestPlan_HeightModeWithSkip(t *testing.T) {
	job := models.Job{
		Source:    "portrait.JPEG",
		Axis:      models.Heights(800, 400),
		OutputDir: "resized",
	}
	src := models.SourceImage{Width: 800, Height: 600}

	variants := Plan(job, src)
	if len(variants) != 2 {
		t.Fatalf("Expected 2 variants, got %d", len(variants))
	}

	first := variants[0]
	if first.Status != models.StatusPlanned || first.Width != 533 || first.Height != 400 {
		t.Errorf("Expected planned 533x400, got %s %dx%d", first.Status, first.Width, first.Height)
	}
	if first.Path != filepath.Join("resized", "portrait_400.JPEG") {
		t.Errorf("Expected extension case preserved, got %s", first.Path)
	}

	second := variants[1]
	if second.Status != models.StatusSkipped {
		t.Fatalf("Expected target 800 skipped, got %s", second.Status)
	}
	wantReason := "upscale would be required (native 600px < target 800px)"
	if second.SkipReason != wantReason {
		t.Errorf("Expected reason %q, got %q", wantReason, second.SkipReason)
	}
	if second.Width != 0 || second.Height != 0 {
		t.Errorf("Skipped variant must not carry dimensions, got %dx%d", second.Width, second.Height)
	}
}

func TestPlan_TargetEqualToNativeIsPlanned(t *testing.T) {
	job := models.Job{Source: "a.jpg", Axis: models.Widths(640), OutputDir: "."}
	variants := Plan(job, models.SourceImage{Width: 640, Height: 480})

	if variants[0].Status != models.StatusPlanned {
		t.Fatalf("Expected planned, got %s", variants[0].Status)
	}
	if variants[0].Width != 640 || variants[0].Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", variants[0].Width, variants[0].Height)
	}
}

func TestPlan_ExtremeAspectClampsToOnePixel(t *testing.T) {
	job := models.Job{Source: "strip.jpg", Axis: models.Widths(100), OutputDir: "."}
	variants := Plan(job, models.SourceImage{Width: 10000, Height: 1})

	if variants[0].Height != 1 {
		t.Errorf("Expected height clamped to 1, got %d", variants[0].Height)
	}
}

func TestPlan_RoundingMatchesHalfAwayFromZero(t *testing.T) {
	for w := 1; w <= 120; w++ {
		for h := 1; h <= 120; h += 7 {
			src := models.SourceImage{Width: w, Height: h}
			for target := 1; target <= w; target++ {
				v := Plan(models.Job{Source: "a.jpg", Axis: models.Widths(target)}, src)[0]
				want := int(math.Round(float64(h) * float64(target) / float64(w)))
				if want < 1 {
					want = 1
				}
				if v.Width != target || v.Height != want {
					t.Fatalf("%dx%d target %d: expected %dx%d, got %dx%d", w, h, target, target, want, v.Width, v.Height)
				}
			}

			hv := Plan(models.Job{Source: "a.jpg", Axis: models.Heights(h)}, src)[0]
			if hv.Height != h || hv.Width != w {
				t.Fatalf("%dx%d height %d: expected %dx%d, got %dx%d", w, h, h, w, h, hv.Width, hv.Height)
			}
		}
	}
}

func TestScaleRound(t *testing.T) {
	tests := []struct {
		value, num, den, want int
	}{
		{1600, 300, 2400, 200},
		{800, 400, 600, 533},
		{3, 1, 2, 2}, // 1.5 rounds up
		{5, 1, 2, 3}, // 2.5 rounds away from zero, not to even
		{1, 1, 3, 0},
	}

	for _, tt := range tests {
		if got := ScaleRound(tt.value, tt.num, tt.den); got != tt.want {
			t.Errorf("ScaleRound(%d, %d, %d) = %d, want %d", tt.value, tt.num, tt.den, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("resized", "/in/My.Photo.Jpg", 300)
	if !strings.HasSuffix(got, "My.Photo_300.Jpg") {
		t.Errorf("unexpected output path %s", got)
	}
}
