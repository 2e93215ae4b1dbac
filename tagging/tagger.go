package tagging

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lewtec/pngtag/internal/domain"
	"github.com/lewtec/pngtag/internal/metaedit"
	"github.com/lewtec/pngtag/internal/pngtext"
)

// PolicyRemove is the policy name journaled for removals
const PolicyRemove = "remove"

// Tagger rewrites the metadata of PNG files in place.
// The file is the only store of the tags; Journal only keeps an audit trail.
type Tagger struct {
	Policy  metaedit.Policy
	Journal domain.JournalRepository
}

// Tag sets key to value in the PNG at path according to the tagger policy
func (t *Tagger) Tag(ctx context.Context, path, key, value string) (*domain.Edit, error) {
	if err := pngtext.ValidateEntry(domain.Entry{Key: key, Value: value}); err != nil {
		return nil, err
	}
	edit := &domain.Edit{Key: key, NewValue: value, Policy: t.Policy.String()}
	return t.rewrite(ctx, path, edit, func(entries domain.Entries) (domain.Entries, error) {
		return metaedit.Apply(entries, key, value, t.Policy), nil
	})
}

// Remove deletes every entry with key from the PNG at path
func (t *Tagger) Remove(ctx context.Context, path, key string) (*domain.Edit, error) {
	edit := &domain.Edit{Key: key, Policy: PolicyRemove}
	return t.rewrite(ctx, path, edit, func(entries domain.Entries) (domain.Entries, error) {
		if _, ok := entries.Get(key); !ok {
			return nil, fmt.Errorf("%w: '%s' in '%s'", ErrKeyNotFound, key, path)
		}
		return metaedit.Remove(entries, key), nil
	})
}

// rewrite decodes path, applies change and atomically replaces the file.
// Nothing touches the file until the new content is fully encoded.
func (t *Tagger) rewrite(ctx context.Context, path string, edit *domain.Edit, change func(domain.Entries) (domain.Entries, error)) (*domain.Edit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ioErr("resolve", path, err)
	}
	// Write to the file a symlink points at; renaming over the link would replace it.
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, ioErr("resolve", path, err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, ioErr("stat", abs, err)
	}
	data, err := readImage(abs)
	if err != nil {
		return nil, err
	}
	raster, entries, err := pngtext.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("while decoding '%s': %w", abs, err)
	}
	updated, err := change(entries)
	if err != nil {
		return nil, err
	}
	out, err := pngtext.Encode(raster, updated)
	if err != nil {
		return nil, fmt.Errorf("while encoding '%s': %w", abs, err)
	}
	if err := writeFileAtomic(abs, out, stat.Mode().Perm()); err != nil {
		return nil, err
	}

	edit.Path = abs
	edit.OldValues = entries.Values(edit.Key)
	edit.SHA256Before = HashBytes(data)
	edit.SHA256After = HashBytes(out)
	return t.record(ctx, edit), nil
}

// record journals edit. The file is already written, so failures are only logged.
func (t *Tagger) record(ctx context.Context, edit *domain.Edit) *domain.Edit {
	if t.Journal == nil {
		return edit
	}
	stored, err := t.Journal.Record(ctx, edit)
	if err != nil {
		log.Printf("warning: edit of '%s' not journaled: %v", edit.Path, err)
		return edit
	}
	return stored
}

// ReadMetadata returns the tEXt entries of the PNG at path in file order
func ReadMetadata(path string) (domain.Entries, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	_, entries, err := pngtext.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("while decoding '%s': %w", path, err)
	}
	return entries, nil
}

// Verify returns the value of the first entry with key
func Verify(path, key string) (string, error) {
	entries, err := ReadMetadata(path)
	if err != nil {
		return "", err
	}
	value, ok := entries.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: '%s' in '%s'", ErrKeyNotFound, key, path)
	}
	return value, nil
}

func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr("read", path, err)
	}
	if err := checkTaggable(data); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return data, nil
}
