package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"imagepro/models"
	"imagepro/validation"
)

// Source is a fully decoded source image. It is shared read-only by every
// variant rendered from it.
type Source struct {
	Info    models.SourceImage
	Image   image.Image
	profile []byte
}

// HasICCProfile reports whether the source carries an RGB color profile that
// will be embedded in every variant.
func (s *Source) HasICCProfile() bool {
	return len(s.profile) > 0
}

type Converter struct {
	filter imaging.ResampleFilter
}

type Option func(*Converter)

// WithFilter overrides the resampling filter. Lanczos is the default.
func WithFilter(filter imaging.ResampleFilter) Option {
	return func(c *Converter) {
		c.filter = filter
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{filter: imaging.Lanczos}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe reads only the JPEG header to learn the native dimensions.
func (c *Converter) Probe(path string) (models.SourceImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.SourceImage{}, models.InputNotFound(path, err)
	}
	defer f.Close()

	fileType, err := validation.DetectFileType(f)
	if err != nil {
		return models.SourceImage{}, models.CorruptImage(path, err)
	}
	if fileType != validation.FileTypeJPEG {
		return models.SourceImage{}, models.CorruptImage(path, fmt.Errorf("%w: content is %s, not jpeg", validation.ErrUnsupportedFormat, fileType))
	}

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		return models.SourceImage{}, models.CorruptImage(path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return models.SourceImage{}, models.CorruptImage(path, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}

	return models.SourceImage{
		Path:   path,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: string(validation.FileTypeJPEG),
	}, nil
}

// Decode loads the full pixel buffer plus any ICC profile segments.
func (c *Converter) Decode(info models.SourceImage) (*Source, error) {
	data, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, models.IOError(info.Path, "read source", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.CorruptImage(info.Path, err)
	}

	b := img.Bounds()
	if b.Dx() != info.Width || b.Dy() != info.Height {
		return nil, models.CorruptImage(info.Path, fmt.Errorf("decoded %dx%d, header declares %dx%d", b.Dx(), b.Dy(), info.Width, info.Height))
	}

	// Variants are always encoded as YCbCr, so only an RGB profile still
	// describes them.
	profile := extractICCSegments(data)
	if iccColorSpace(profile) != "RGB " {
		profile = nil
	}

	return &Source{
		Info:    info,
		Image:   img,
		profile: profile,
	}, nil
}

// Render resizes src to the variant's dimensions and publishes it atomically
// at the variant path. Write failures are reported in the outcome, never
// returned, so sibling variants keep going.
func (c *Converter) Render(src *Source, v models.PlannedVariant, quality int) models.VariantOutcome {
	resized := imaging.Resize(src.Image, v.Width, v.Height, c.filter)

	err := writeAtomic(v.Path, func(w io.Writer) error {
		pw := newProfileWriter(w, src.profile)
		if err := imaging.Encode(pw, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return err
		}
		return pw.finish()
	})
	if err != nil {
		return models.Failed(v, models.IOError(v.Path, "write variant", err))
	}

	info, err := os.Stat(v.Path)
	if err != nil {
		return models.Failed(v, models.IOError(v.Path, "stat variant", err))
	}

	return models.Created(v, info.Size())
}
