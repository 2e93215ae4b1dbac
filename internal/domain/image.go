package domain

import "fmt"

// ColorType is the PNG colour type stored in the IHDR chunk.
type ColorType uint8

const (
	Grayscale      ColorType = 0
	RGB            ColorType = 2
	Palette        ColorType = 3
	GrayscaleAlpha ColorType = 4
	RGBA           ColorType = 6
)

// Channels returns the number of samples per pixel, or 0 for unknown colour types.
func (c ColorType) Channels() int {
	switch c {
	case Grayscale, Palette:
		return 1
	case GrayscaleAlpha:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	default:
		return 0
	}
}

// ValidDepth reports whether depth is a legal bit depth for the colour type.
func (c ColorType) ValidDepth(depth uint8) bool {
	switch c {
	case Grayscale:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case Palette:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case RGB, GrayscaleAlpha, RGBA:
		return depth == 8 || depth == 16
	default:
		return false
	}
}

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "Grayscale"
	case RGB:
		return "RGB"
	case Palette:
		return "Indexed"
	case GrayscaleAlpha:
		return "GrayscaleAlpha"
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// Raster is a decoded PNG image: the header parameters plus the unfiltered,
// de-interlaced sample rows. Pixels holds Height rows of RowBytes() bytes.
type Raster struct {
	Width      int
	Height     int
	ColorType  ColorType
	BitDepth   uint8
	Interlaced bool

	// Palette and Transparency are the raw PLTE and tRNS payloads, if any.
	Palette      []byte
	Transparency []byte

	Pixels []byte
}

// BitsPerPixel returns the number of bits used by a single pixel.
func (r *Raster) BitsPerPixel() int {
	return r.ColorType.Channels() * int(r.BitDepth)
}

// RowBytes returns the length of one unfiltered scanline.
func (r *Raster) RowBytes() int {
	return rowBytes(r.Width, r.BitsPerPixel())
}

func rowBytes(width, bpp int) int {
	return (width*bpp + 7) / 8
}
