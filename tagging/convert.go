package tagging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrDestinationExists is returned by ConvertToPNG instead of overwriting a file
var ErrDestinationExists = errors.New("destination already exists")

func DecodeImage(filepath string) (image.Image, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, ioErr("open", filepath, err)
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("while decoding '%s': %w", filepath, err)
	}
	return m, nil
}

// ConvertToPNG re-encodes the image at src as <outputDir>/<name>.png so it
// can be tagged. The source file is left alone.
func ConvertToPNG(src, outputDir string) (string, error) {
	img, err := DecodeImage(src)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".png"
	dst := filepath.Join(outputDir, name)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("while encoding '%s': %w", dst, err)
	}
	if err := claimFile(dst); err != nil {
		return "", err
	}
	if err := writeFileAtomic(dst, buf.Bytes(), 0o644); err != nil {
		if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return "", multierror.Append(err, ioErr("remove", dst, rmErr)).ErrorOrNil()
		}
		return "", err
	}
	return dst, nil
}

// claimFile creates an empty dst, failing if anything already exists there.
// Concurrent conversions to the same name race on the create, not on the rename.
func claimFile(dst string) error {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: '%s'", ErrDestinationExists, dst)
	}
	if err != nil {
		return ioErr("create", dst, err)
	}
	if err := f.Close(); err != nil {
		return ioErr("close", dst, err)
	}
	return nil
}
