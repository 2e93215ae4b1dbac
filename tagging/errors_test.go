package tagging

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/lewtec/pngtag/internal/pngtext"
)

func TestDescribe_DistinctMessages(t *testing.T) {
	errs := map[string]error{
		"not found":    ioErr("read", "/x.png", fs.ErrNotExist),
		"not png":      fmt.Errorf("'/x.png': %w", pngtext.ErrNotPNG),
		"key too long": pngtext.ErrKeyTooLong,
		"encoding":     fmt.Errorf("%w: value", pngtext.ErrInvalidEncoding),
		"unsupported":  ErrUnsupportedFormat,
		"corrupt":      pngtext.ErrCorruptImageData,
		"missing key":  ErrKeyNotFound,
		"header":       pngtext.ErrMissingHeader,
		"invalid key":  pngtext.ErrInvalidKeyword,
		"color type":   pngtext.ErrUnsupportedColorType,
		"generic io":   ioErr("rename", "/x.png", errors.New("boom")),
		"permission":   ioErr("open", "/x.png", fs.ErrPermission),
	}
	seen := map[Kind]string{}
	for name, err := range errs {
		kind := Classify(err)
		if kind == KindUnknown {
			t.Errorf("%s: Classify() = KindUnknown", name)
			continue
		}
		if other, ok := seen[kind]; ok {
			t.Errorf("%s and %s share kind %v", name, other, kind)
		}
		seen[kind] = name
	}

	prefixes := map[Kind]string{
		KindFileNotFound:    "file not found",
		KindNotPNG:          "not a valid PNG file",
		KindKeyTooLong:      "key too long",
		KindInvalidEncoding: "invalid encoding",
	}
	for kind, prefix := range prefixes {
		msg := Describe(errs[seen[kind]])
		if len(msg) < len(prefix) || msg[:len(prefix)] != prefix {
			t.Errorf("Describe() = %q, want prefix %q", msg, prefix)
		}
	}
}

func TestClassify_Unknown(t *testing.T) {
	if Classify(errors.New("something")) != KindUnknown {
		t.Error("plain errors should be unknown")
	}
	if Describe(nil) != "" {
		t.Error("Describe(nil) should be empty")
	}
}
