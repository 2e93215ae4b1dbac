package pngtext

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPNG is returned when the input does not start with the PNG signature.
	ErrNotPNG = errors.New("pngtext: not a PNG file")

	// ErrMissingHeader is returned when the IHDR chunk is absent or malformed.
	ErrMissingHeader = errors.New("pngtext: missing or malformed IHDR chunk")

	// ErrCorruptImageData indicates a broken chunk stream or undecodable pixel data.
	ErrCorruptImageData = errors.New("pngtext: corrupt image data")

	// ErrUnsupportedColorType is returned when a raster cannot be reproduced faithfully.
	ErrUnsupportedColorType = errors.New("pngtext: unsupported color type")

	// ErrKeyTooLong is returned for keywords longer than MaxKeyLength characters.
	ErrKeyTooLong = errors.New("pngtext: keyword too long")

	// ErrInvalidKeyword is returned for empty keywords or keywords containing NUL.
	ErrInvalidKeyword = errors.New("pngtext: invalid keyword")

	// ErrInvalidEncoding is returned when a keyword or text is not representable in Latin-1.
	ErrInvalidEncoding = errors.New("pngtext: text is not representable in Latin-1")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptImageData}, args...)...)
}

func headerf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMissingHeader}, args...)...)
}
