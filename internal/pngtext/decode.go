package pngtext

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/lewtec/pngtag/internal/domain"
)

// Decode parses a complete PNG byte stream. It returns the fully
// decompressed raster and every tEXt entry in file order. Ancillary chunks
// other than tEXt and tRNS are ignored.
func Decode(data []byte) (*domain.Raster, domain.Entries, error) {
	if !HasSignature(data) {
		return nil, nil, ErrNotPNG
	}
	cr := &chunkReader{buf: data, off: len(signature)}

	first, ok, err := cr.next()
	if err != nil {
		return nil, nil, headerf("%v", err)
	}
	if !ok || first.typ != chunkIHDR {
		return nil, nil, headerf("first chunk is not IHDR")
	}
	r, err := parseIHDR(first.data)
	if err != nil {
		return nil, nil, err
	}

	var (
		entries  domain.Entries
		idat     []io.Reader
		seenIEND bool
	)
chunks:
	for {
		c, ok, err := cr.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		switch c.typ {
		case chunkIHDR:
			return nil, nil, corruptf("duplicate IHDR chunk")
		case chunkPLTE:
			if len(c.data) == 0 || len(c.data)%3 != 0 || len(c.data) > 3*256 {
				return nil, nil, corruptf("bad PLTE length %d", len(c.data))
			}
			r.Palette = bytes.Clone(c.data)
		case chunkTRNS:
			// Images with an alpha channel may not carry tRNS; drop it like image/png does.
			if r.ColorType != domain.GrayscaleAlpha && r.ColorType != domain.RGBA {
				r.Transparency = bytes.Clone(c.data)
			}
		case chunkTEXT:
			if e, ok := decodeText(c.data); ok {
				entries = append(entries, e)
			}
		case chunkIDAT:
			idat = append(idat, bytes.NewReader(c.data))
		case chunkIEND:
			seenIEND = true
			break chunks
		default:
			// Bit 5 of the first type byte clear marks a critical chunk.
			if c.typ[0]&0x20 == 0 {
				return nil, nil, corruptf("unknown critical chunk %q", c.typ)
			}
		}
	}

	switch {
	case len(idat) == 0:
		return nil, nil, corruptf("no IDAT chunk")
	case !seenIEND:
		return nil, nil, corruptf("missing IEND chunk")
	case r.ColorType == domain.Palette && r.Palette == nil:
		return nil, nil, corruptf("palette image without PLTE chunk")
	}

	r.Pixels, err = inflate(r, io.MultiReader(idat...))
	if err != nil {
		return nil, nil, err
	}
	return r, entries, nil
}

func parseIHDR(data []byte) (*domain.Raster, error) {
	if len(data) != 13 {
		return nil, headerf("bad IHDR length %d", len(data))
	}
	w := binary.BigEndian.Uint32(data[0:4])
	h := binary.BigEndian.Uint32(data[4:8])
	if w == 0 || h == 0 || w > math.MaxInt32 || h > math.MaxInt32 {
		return nil, headerf("invalid dimensions %dx%d", w, h)
	}
	depth := data[8]
	ct := domain.ColorType(data[9])
	if ct.Channels() == 0 {
		return nil, headerf("unknown color type %d", data[9])
	}
	if !ct.ValidDepth(depth) {
		return nil, headerf("bit depth %d is invalid for color type %s", depth, ct)
	}
	if data[10] != 0 {
		return nil, headerf("unknown compression method %d", data[10])
	}
	if data[11] != 0 {
		return nil, headerf("unknown filter method %d", data[11])
	}
	if data[12] > 1 {
		return nil, headerf("unknown interlace method %d", data[12])
	}
	r := &domain.Raster{
		Width:      int(w),
		Height:     int(h),
		ColorType:  ct,
		BitDepth:   depth,
		Interlaced: data[12] == 1,
	}
	if int64(r.RowBytes())+1 > math.MaxInt64/int64(r.Height) {
		return nil, headerf("dimensions %dx%d overflow", w, h)
	}
	return r, nil
}

// inflate decompresses the concatenated IDAT stream and reconstructs the
// unfiltered scanlines. The output buffer only grows as far as the stream
// actually decompresses.
func inflate(r *domain.Raster, compressed io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(compressed)
	if err != nil {
		return nil, corruptf("%v", err)
	}
	defer zr.Close()

	bitsPP := r.BitsPerPixel()
	stride := max(1, bitsPP/8)
	ps := passes(r.Width, r.Height, r.Interlaced)

	var expected int64
	for _, p := range ps {
		expected += int64(p.height) * int64(1+rowBytes(p.width, bitsPP))
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, expected+1))
	if err != nil {
		return nil, corruptf("%v", err)
	}
	if n < expected {
		return nil, corruptf("not enough pixel data")
	}
	if n > expected {
		return nil, corruptf("too much pixel data")
	}

	raw := buf.Bytes()
	rowLen := r.RowBytes()
	pixels := make([]byte, r.Height*rowLen)
	for _, p := range ps {
		prb := rowBytes(p.width, bitsPP)
		prev := make([]byte, prb)
		for y := 0; y < p.height; y++ {
			row := raw[:1+prb]
			raw = raw[1+prb:]
			cdat := row[1:]
			if err := unfilter(row[0], cdat, prev, stride); err != nil {
				return nil, err
			}
			if !r.Interlaced {
				copy(pixels[y*rowLen:], cdat)
			} else {
				dy := p.scan.yOffset + y*p.scan.yFactor
				dst := pixels[dy*rowLen : (dy+1)*rowLen]
				for x := 0; x < p.width; x++ {
					copyPixel(dst, p.scan.xOffset+x*p.scan.xFactor, cdat, x, bitsPP)
				}
			}
			prev = cdat
		}
	}
	return pixels, nil
}

func rowBytes(width, bitsPerPixel int) int {
	return (width*bitsPerPixel + 7) / 8
}
