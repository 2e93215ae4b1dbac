package tagging

import (
	"bytes"

	"github.com/lewtec/pngtag/internal/pngtext"
)

// Format is an image container recognized from its leading bytes
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
)

// magicLen is enough leading bytes for DetectFormat
const magicLen = 8

var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// DetectFormat inspects the first bytes of a file
func DetectFormat(magic []byte) Format {
	switch {
	case pngtext.HasSignature(magic):
		return FormatPNG
	case bytes.HasPrefix(magic, jpegMagic):
		return FormatJPEG
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPEG"
	default:
		return "unknown"
	}
}

// checkTaggable rejects anything that is not a PNG, keeping recognized and
// unrecognized formats apart.
func checkTaggable(data []byte) error {
	switch DetectFormat(data) {
	case FormatPNG:
		return nil
	case FormatJPEG:
		return ErrUnsupportedFormat
	default:
		return pngtext.ErrNotPNG
	}
}
