package validation

import "errors"

var (
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
