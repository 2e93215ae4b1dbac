package pngtext

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/lewtec/pngtag/internal/domain"
)

// MaxKeyLength is the longest keyword a tEXt chunk may carry.
const MaxKeyLength = 79

// ValidateEntry checks that an entry can be stored in a tEXt chunk.
func ValidateEntry(e domain.Entry) error {
	_, err := encodeText(e)
	return err
}

// encodeText builds the tEXt payload: Latin-1 keyword, NUL, Latin-1 text.
func encodeText(e domain.Entry) ([]byte, error) {
	if e.Key == "" {
		return nil, fmt.Errorf("%w: empty keyword", ErrInvalidKeyword)
	}
	if n := utf8.RuneCountInString(e.Key); n > MaxKeyLength {
		return nil, fmt.Errorf("%w: %d characters, at most %d allowed", ErrKeyTooLong, n, MaxKeyLength)
	}
	key, err := toLatin1(e.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword %q", ErrInvalidEncoding, e.Key)
	}
	if bytes.IndexByte(key, 0) >= 0 {
		return nil, fmt.Errorf("%w: keyword %q contains NUL", ErrInvalidKeyword, e.Key)
	}
	value, err := toLatin1(e.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: value for keyword %q", ErrInvalidEncoding, e.Key)
	}
	payload := make([]byte, 0, len(key)+1+len(value))
	payload = append(payload, key...)
	payload = append(payload, 0)
	return append(payload, value...), nil
}

// decodeText splits a tEXt payload. ok is false when the separator is missing.
func decodeText(data []byte) (e domain.Entry, ok bool) {
	i := bytes.IndexByte(data, 0)
	if i <= 0 {
		return domain.Entry{}, false
	}
	return domain.Entry{Key: fromLatin1(data[:i]), Value: fromLatin1(data[i+1:])}, true
}

func toLatin1(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidEncoding
	}
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
}

func fromLatin1(b []byte) string {
	// Every byte is a valid ISO 8859-1 code point, so decoding cannot fail.
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(s)
}
