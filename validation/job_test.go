package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imagepro/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestValidate_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "photo.JPG")
	writeFile(t, input)

	job, err := Validate(Args{Input: input, Width: strPtr("900, 300,600,300")})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if job.Quality != 90 {
		t.Errorf("Expected default quality 90, got %d", job.Quality)
	}
	if job.OutputDir != "./resized/" {
		t.Errorf("Expected default output dir ./resized/, got %q", job.OutputDir)
	}
	if job.OnExisting != models.ExistingOverwrite {
		t.Errorf("Expected overwrite policy, got %q", job.OnExisting)
	}
	if job.Axis.Axis() != models.AxisWidth {
		t.Errorf("Expected width axis, got %v", job.Axis.Axis())
	}
	want := []int{300, 600, 900}
	got := job.Axis.Targets()
	if len(got) != len(want) {
		t.Fatalf("Expected targets %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected targets %v, got %v", want, got)
		}
	}
}

func TestValidate_InvalidArguments(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "photo.jpg")
	writeFile(t, input)
	png := filepath.Join(tmpDir, "photo.png")
	writeFile(t, png)

	tests := []struct {
		name string
		args Args
	}{
		{"both axes", Args{Input: input, Width: strPtr("300"), Height: strPtr("400")}},
		{"no axis", Args{Input: input}},
		{"empty list", Args{Input: input, Width: strPtr("")}},
		{"empty entry", Args{Input: input, Width: strPtr("300,,600")}},
		{"zero size", Args{Input: input, Height: strPtr("0")}},
		{"negative size", Args{Input: input, Width: strPtr("300,-5")}},
		{"non-integer size", Args{Input: input, Width: strPtr("300.5")}},
		{"quality too high", Args{Input: input, Width: strPtr("300"), Quality: intPtr(150)}},
		{"quality zero", Args{Input: input, Width: strPtr("300"), Quality: intPtr(0)}},
		{"unsupported extension", Args{Input: png, Width: strPtr("300")}},
		{"unknown policy", Args{Input: input, Width: strPtr("300"), OnExisting: "merge"}},
		{"missing input path", Args{Width: strPtr("300")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.args)
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestValidate_InvalidArgumentBeforeIO(t *testing.T) {
	// A nonexistent input with a bad quality must still report the argument error.
	_, err := Validate(Args{Input: "/nonexistent/photo.jpg", Width: strPtr("300"), Quality: intPtr(150)})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestValidate_InputNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name  string
		input string
	}{
		{"missing file", filepath.Join(tmpDir, "missing.jpg")},
		{"directory", filepath.Join(tmpDir, "dir.jpg")},
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "dir.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(Args{Input: tt.input, Width: strPtr("300")})
			if !errors.Is(err, models.ErrInputNotFound) {
				t.Errorf("Expected ErrInputNotFound, got %v", err)
			}
		})
	}
}

func TestValidate_DoesNotCreateOutputDir(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "photo.jpeg")
	writeFile(t, input)
	outDir := filepath.Join(tmpDir, "resized")

	if _, err := Validate(Args{Input: input, Height: strPtr("400"), OutputDir: outDir}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("Output directory must not be created by validation, stat err = %v", err)
	}
}

func TestValidateOptions(t *testing.T) {
	if err := ValidateOptions(Args{Width: strPtr("300,600")}); err != nil {
		t.Errorf("Expected valid options, got %v", err)
	}

	q := 0
	err := ValidateOptions(Args{Width: strPtr("300"), Quality: &q})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
