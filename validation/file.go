// Package validation checks job arguments and input files. Only JPEG is
// processed; the other image signatures are recognised so a mislabelled file
// can be reported by what it really contains.
package validation

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

type FileType string

const (
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
	FileTypeGIF  FileType = "gif"
	FileTypeWebP FileType = "webp"
)

var magicBytes = map[FileType][]byte{
	FileTypePNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	FileTypeJPEG: {0xFF, 0xD8, 0xFF},
	FileTypeGIF:  {0x47, 0x49, 0x46, 0x38},
	FileTypeWebP: {0x52, 0x49, 0x46, 0x46},
}

// DetectFileType sniffs the leading bytes of r and rewinds it.
func DetectFileType(r io.ReadSeeker) (FileType, error) {
	buffer := make([]byte, 16)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	for fileType, signature := range magicBytes {
		if bytes.HasPrefix(buffer[:n], signature) {
			return fileType, nil
		}
	}

	return "", ErrInvalidFileType
}

var jpegExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// IsJPEGExtension reports whether path ends in .jpg or .jpeg, ignoring case.
func IsJPEGExtension(path string) bool {
	return jpegExtensions[strings.ToLower(filepath.Ext(path))]
}
