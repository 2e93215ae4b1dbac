package pngtext

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/lewtec/pngtag/internal/domain"
)

// encodeStd encodes img with the standard library encoder.
func encodeStd(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func ihdrData(width, height int, depth uint8, ct domain.ColorType, interlace uint8) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], uint32(width))
	binary.BigEndian.PutUint32(b[4:8], uint32(height))
	b[8] = depth
	b[9] = uint8(ct)
	b[12] = interlace
	return b
}

type rawChunk struct {
	typ  string
	data []byte
}

// buildPNG assembles a PNG from explicit chunks, computing lengths and CRCs.
func buildPNG(chunks ...rawChunk) []byte {
	buf := append([]byte{}, signature...)
	for _, c := range chunks {
		buf = appendChunk(buf, c.typ, c.data)
	}
	return buf
}

func zlibBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

// gray8PNG is a 2x2 8-bit grayscale image stored with filter None.
func gray8PNG(t *testing.T, text ...rawChunk) []byte {
	t.Helper()
	raw := []byte{0, 10, 20, 0, 30, 40}
	chunks := []rawChunk{{chunkIHDR, ihdrData(2, 2, 8, domain.Grayscale, 0)}}
	chunks = append(chunks, text...)
	chunks = append(chunks,
		rawChunk{chunkIDAT, zlibBytes(t, raw)},
		rawChunk{chunkIEND, nil},
	)
	return buildPNG(chunks...)
}

func textChunk(key, value string) rawChunk {
	return rawChunk{chunkTEXT, append(append([]byte(key), 0), value...)}
}

// listChunks returns the chunk types of a PNG in order.
func listChunks(t *testing.T, data []byte) []chunk {
	t.Helper()
	if !HasSignature(data) {
		t.Fatal("missing PNG signature")
	}
	cr := &chunkReader{buf: data, off: len(signature)}
	var out []chunk
	for {
		c, ok, err := cr.next()
		if err != nil {
			t.Fatalf("reading chunks: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

// randomRaster fills a raster with deterministic noise. Padding bits at the
// end of sub-byte rows stay zero, as a decoder produces for interlaced input.
func randomRaster(seed int64, width, height int, ct domain.ColorType, depth uint8, interlaced bool) *domain.Raster {
	rng := rand.New(rand.NewSource(seed))
	r := &domain.Raster{
		Width:      width,
		Height:     height,
		ColorType:  ct,
		BitDepth:   depth,
		Interlaced: interlaced,
	}
	rowLen := r.RowBytes()
	r.Pixels = make([]byte, height*rowLen)
	rng.Read(r.Pixels)
	if pad := rowLen*8 - width*r.BitsPerPixel(); pad > 0 {
		mask := byte(0xff << pad)
		for y := 0; y < height; y++ {
			r.Pixels[(y+1)*rowLen-1] &= mask
		}
	}
	if ct == domain.Palette {
		r.Palette = make([]byte, 3*(1<<depth))
		rng.Read(r.Palette)
		r.Transparency = []byte{0, 128}
	}
	return r
}
