package pngtext

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zlib"

	"github.com/lewtec/pngtag/internal/domain"
)

// maxIDATSize bounds the payload of a single IDAT chunk.
const maxIDATSize = 1 << 16

// Encode serializes r as a PNG with one tEXt chunk per entry, in order.
// The header reproduces r's dimensions, colour type, bit depth and
// interlacing exactly. Nothing is produced unless every entry and the
// raster itself are valid.
func Encode(r *domain.Raster, entries domain.Entries) ([]byte, error) {
	if err := validateRaster(r); err != nil {
		return nil, err
	}
	texts := make([][]byte, len(entries))
	for i, e := range entries {
		payload, err := encodeText(e)
		if err != nil {
			return nil, err
		}
		texts[i] = payload
	}
	idat, err := deflate(r)
	if err != nil {
		return nil, err
	}

	size := len(signature) + 25 + len(r.Palette) + len(r.Transparency) + len(idat) + 12*(len(texts)+3)
	for _, t := range texts {
		size += len(t) + 12
	}
	buf := make([]byte, 0, size+12*(len(idat)/maxIDATSize))
	buf = append(buf, signature...)
	buf = appendChunk(buf, chunkIHDR, ihdr(r))
	if r.Palette != nil {
		buf = appendChunk(buf, chunkPLTE, r.Palette)
	}
	if r.Transparency != nil {
		buf = appendChunk(buf, chunkTRNS, r.Transparency)
	}
	for _, t := range texts {
		buf = appendChunk(buf, chunkTEXT, t)
	}
	for len(idat) > 0 {
		n := min(len(idat), maxIDATSize)
		buf = appendChunk(buf, chunkIDAT, idat[:n])
		idat = idat[n:]
	}
	return appendChunk(buf, chunkIEND, nil), nil
}

func validateRaster(r *domain.Raster) error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrCorruptImageData)
	}
	ct := r.ColorType
	if ct.Channels() == 0 || !ct.ValidDepth(r.BitDepth) {
		return fmt.Errorf("%w: %s at bit depth %d", ErrUnsupportedColorType, ct, r.BitDepth)
	}
	switch {
	case ct == domain.Palette && len(r.Palette) == 0:
		return fmt.Errorf("%w: indexed image without a palette", ErrUnsupportedColorType)
	case r.Palette != nil && (ct == domain.Grayscale || ct == domain.GrayscaleAlpha):
		return fmt.Errorf("%w: palette not allowed for %s", ErrUnsupportedColorType, ct)
	case r.Palette != nil && (len(r.Palette)%3 != 0 || len(r.Palette) > 3*256):
		return fmt.Errorf("%w: palette length %d", ErrUnsupportedColorType, len(r.Palette))
	case r.Transparency != nil && (ct == domain.GrayscaleAlpha || ct == domain.RGBA):
		return fmt.Errorf("%w: transparency chunk not allowed for %s", ErrUnsupportedColorType, ct)
	}
	if r.Width <= 0 || r.Height <= 0 || r.Width > 0x7fffffff || r.Height > 0x7fffffff {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrCorruptImageData, r.Width, r.Height)
	}
	if want := r.Height * r.RowBytes(); len(r.Pixels) != want {
		return fmt.Errorf("%w: pixel buffer is %d bytes, want %d", ErrCorruptImageData, len(r.Pixels), want)
	}
	return nil
}

func ihdr(r *domain.Raster) []byte {
	var b [13]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(r.Width))
	binary.BigEndian.PutUint32(b[4:8], uint32(r.Height))
	b[8] = r.BitDepth
	b[9] = uint8(r.ColorType)
	if r.Interlaced {
		b[12] = 1
	}
	return b[:]
}

// deflate filters every scanline of every pass and zlib-compresses the result.
func deflate(r *domain.Raster) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}

	bitsPP := r.BitsPerPixel()
	stride := max(1, bitsPP/8)
	rowLen := r.RowBytes()
	// Filtering rarely helps indexed or sub-byte images.
	adaptive := r.ColorType != domain.Palette && r.BitDepth >= 8

	for _, p := range passes(r.Width, r.Height, r.Interlaced) {
		prb := rowBytes(p.width, bitsPP)
		cur := make([]byte, prb)
		prev := make([]byte, prb)
		var scratch [nFilter][]byte
		for i := range scratch {
			scratch[i] = make([]byte, prb)
		}
		out := make([]byte, 1+prb)

		for y := 0; y < p.height; y++ {
			if !r.Interlaced {
				copy(cur, r.Pixels[y*rowLen:(y+1)*rowLen])
			} else {
				clear(cur)
				sy := p.scan.yOffset + y*p.scan.yFactor
				src := r.Pixels[sy*rowLen : (sy+1)*rowLen]
				for x := 0; x < p.width; x++ {
					copyPixel(cur, x, src, p.scan.xOffset+x*p.scan.xFactor, bitsPP)
				}
			}
			ft := ftNone
			if adaptive {
				ft = chooseFilter(&scratch, cur, prev, stride)
			} else {
				filterRow(ftNone, scratch[ftNone], cur, prev, stride)
			}
			out[0] = byte(ft)
			copy(out[1:], scratch[ft])
			if _, err := zw.Write(out); err != nil {
				return nil, err
			}
			prev, cur = cur, prev
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
