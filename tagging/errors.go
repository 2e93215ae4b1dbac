package tagging

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/lewtec/pngtag/internal/pngtext"
)

var (
	// ErrUnsupportedFormat is returned for image formats that are recognized but cannot be tagged
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrKeyNotFound is returned by Verify when the file has no entry with the key
	ErrKeyNotFound = errors.New("metadata key not found")
)

// IOError reports a filesystem failure together with the operation and path involved
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("while trying to %s '%s': %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// Kind is the category of a failure as presented to the user
type Kind int

const (
	KindUnknown Kind = iota
	KindFileNotFound
	KindPermission
	KindIO
	KindNotPNG
	KindUnsupportedFormat
	KindMissingHeader
	KindCorruptImageData
	KindUnsupportedColorType
	KindKeyTooLong
	KindInvalidKeyword
	KindInvalidEncoding
	KindKeyNotFound
)

// Classify maps an error returned by this package to its Kind
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, fs.ErrNotExist):
		return KindFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, pngtext.ErrNotPNG):
		return KindNotPNG
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, pngtext.ErrMissingHeader):
		return KindMissingHeader
	case errors.Is(err, pngtext.ErrCorruptImageData):
		return KindCorruptImageData
	case errors.Is(err, pngtext.ErrUnsupportedColorType):
		return KindUnsupportedColorType
	case errors.Is(err, pngtext.ErrKeyTooLong):
		return KindKeyTooLong
	case errors.Is(err, pngtext.ErrInvalidKeyword):
		return KindInvalidKeyword
	case errors.Is(err, pngtext.ErrInvalidEncoding):
		return KindInvalidEncoding
	case errors.Is(err, ErrKeyNotFound):
		return KindKeyNotFound
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return KindIO
	}
	return KindUnknown
}

var kindMessages = map[Kind]string{
	KindFileNotFound:         "file not found",
	KindPermission:           "permission denied",
	KindIO:                   "I/O error",
	KindNotPNG:               "not a valid PNG file",
	KindUnsupportedFormat:    "image format not supported for tagging (only PNG can be tagged)",
	KindMissingHeader:        "PNG header (IHDR) missing or malformed",
	KindCorruptImageData:     "PNG image data is corrupt",
	KindUnsupportedColorType: "PNG color type cannot be reproduced",
	KindKeyTooLong:           "key too long (at most 79 characters)",
	KindInvalidKeyword:       "invalid key (must be non-empty and must not contain NUL)",
	KindInvalidEncoding:      "invalid encoding (keys and values must be representable in Latin-1)",
	KindKeyNotFound:          "key not found",
}

func (k Kind) String() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "error"
}

// Describe renders err for the user, prefixed with the message of its Kind
func Describe(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", Classify(err), err)
}
