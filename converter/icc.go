package converter

import (
	"bytes"
	"errors"
	"io"
	"slices"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP2 = 0xE2
	markerTEM  = 0x01
	markerRST0 = 0xD0
	markerRST7 = 0xD7
)

var iccSignature = []byte("ICC_PROFILE\x00")

var errNotJPEGStream = errors.New("encoder output does not start with SOI")

// extractICCSegments returns the raw APP2 ICC_PROFILE segments (marker and
// length included) ordered by chunk sequence number. Everything else in the
// header, EXIF included, is dropped.
func extractICCSegments(data []byte) []byte {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil
	}

	type chunk struct {
		seq     byte
		segment []byte
	}
	var chunks []chunk

	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			i++
			continue
		case marker == markerTEM, marker >= markerRST0 && marker <= markerRST7:
			i += 2
			continue
		case marker == markerSOS, marker == markerEOI:
			i = len(data)
			continue
		}

		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 || i+2+length > len(data) {
			break
		}
		payload := data[i+4 : i+2+length]
		if marker == markerAPP2 && len(payload) > len(iccSignature)+2 && bytes.HasPrefix(payload, iccSignature) {
			chunks = append(chunks, chunk{
				seq:     payload[len(iccSignature)],
				segment: data[i : i+2+length],
			})
		}
		i += 2 + length
	}

	slices.SortStableFunc(chunks, func(a, b chunk) int {
		return int(a.seq) - int(b.seq)
	})

	var out []byte
	for _, c := range chunks {
		out = append(out, c.segment...)
	}
	return out
}

// iccColorSpace returns the data colour space signature ("RGB ", "GRAY",
// "CMYK", ...) from the profile header in the first ICC segment, or "" when
// the segment is too short to hold a header.
func iccColorSpace(segments []byte) string {
	// marker and length, then signature, sequence and count, then 16 header bytes
	const offset = 4 + len("ICC_PROFILE\x00") + 2 + 16
	if len(segments) < 4 {
		return ""
	}
	length := int(segments[2])<<8 | int(segments[3])
	if 2+length < offset+4 || len(segments) < offset+4 {
		return ""
	}
	return string(segments[offset : offset+4])
}

// profileWriter splices ICC segments in right after the SOI marker of the
// JPEG stream written through it.
type profileWriter struct {
	w        io.Writer
	profile  []byte
	head     []byte
	injected bool
}

func newProfileWriter(w io.Writer, profile []byte) *profileWriter {
	return &profileWriter{w: w, profile: profile, injected: len(profile) == 0}
}

func (p *profileWriter) Write(b []byte) (int, error) {
	if p.injected {
		return p.w.Write(b)
	}

	n := 0
	for len(p.head) < 2 && len(b) > 0 {
		p.head = append(p.head, b[0])
		b = b[1:]
		n++
	}
	if len(p.head) < 2 {
		return n, nil
	}
	if p.head[0] != 0xFF || p.head[1] != markerSOI {
		return n, errNotJPEGStream
	}

	if _, err := p.w.Write(p.head); err != nil {
		return n, err
	}
	if _, err := p.w.Write(p.profile); err != nil {
		return n, err
	}
	p.injected = true

	m, err := p.w.Write(b)
	return n + m, err
}

func (p *profileWriter) finish() error {
	if !p.injected {
		return errNotJPEGStream
	}
	return nil
}
