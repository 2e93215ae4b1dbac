package tagging

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lewtec/pngtag/internal/domain"
)

// writeRGBPNG writes an opaque 2x2 image, which image/png stores as 8-bit RGB
func writeRGBPNG(t *testing.T, dir, name string) (string, *image.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 12, G: 34, B: 56, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, img
}

// insertText writes a copy of the PNG at src with a raw tEXt chunk right after
// IHDR. The keyword is not validated, so files other writers produced can be simulated.
func insertText(t *testing.T, src, dst, key, value string) {
	t.Helper()
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	const ihdrEnd = 8 + 12 + 13
	payload := append(append([]byte(key), 0), value...)
	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(payload)))
	chunk = append(chunk, "tEXt"...)
	chunk = append(chunk, payload...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := append(append(append([]byte{}, data[:ihdrEnd]...), chunk...), data[ihdrEnd:]...)
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeJPEGHeader(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func mustHash(t *testing.T, path string) string {
	t.Helper()
	h, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	return h
}

// memoryJournal keeps edits in a slice
type memoryJournal struct {
	edits []*domain.Edit
	fail  bool
}

func (j *memoryJournal) Record(ctx context.Context, edit *domain.Edit) (*domain.Edit, error) {
	if j.fail {
		return nil, errors.New("journal unavailable")
	}
	stored := *edit
	stored.ID = int64(len(j.edits) + 1)
	j.edits = append(j.edits, &stored)
	return &stored, nil
}

func (j *memoryJournal) ListForPath(ctx context.Context, path string, limit int) ([]*domain.Edit, error) {
	var ret []*domain.Edit
	for i := len(j.edits) - 1; i >= 0; i-- {
		if j.edits[i].Path == path {
			ret = append(ret, j.edits[i])
		}
	}
	return ret, nil
}

func (j *memoryJournal) List(ctx context.Context, limit int) ([]*domain.Edit, error) {
	return j.edits, nil
}

func (j *memoryJournal) Count(ctx context.Context) (int64, error) {
	return int64(len(j.edits)), nil
}
