package tagging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lewtec/pngtag/internal/domain"
)

// imageExtensions are the file extensions considered by ScanFolder
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Candidate is an image file found by ScanFolder
type Candidate struct {
	Path   string
	Name   string
	Format Format
	Size   int64
}

// FileTags is the metadata of one candidate, or the reason it could not be read
type FileTags struct {
	Candidate
	Entries domain.Entries
	Err     error
}

// ScanFolder lists the image files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ScanFolder(dir string) ([]Candidate, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioErr("read directory", dir, err)
	}
	var ret []Candidate
	for _, item := range items {
		if !imageExtensions[strings.ToLower(filepath.Ext(item.Name()))] {
			continue
		}
		path := filepath.Join(dir, item.Name())
		stat, err := os.Stat(path)
		if err != nil || !stat.Mode().IsRegular() {
			continue
		}
		ret = append(ret, Candidate{
			Path:   path,
			Name:   item.Name(),
			Format: sniffFormat(path),
			Size:   stat.Size(),
		})
	}
	return ret, nil
}

// ListFolder reads the tags of every candidate in dir. Failures are recorded
// per file and do not stop the listing.
func ListFolder(dir string) ([]FileTags, error) {
	candidates, err := ScanFolder(dir)
	if err != nil {
		return nil, err
	}
	ret := make([]FileTags, 0, len(candidates))
	for _, c := range candidates {
		entries, err := ReadMetadata(c.Path)
		ret = append(ret, FileTags{Candidate: c, Entries: entries, Err: err})
	}
	return ret, nil
}

func sniffFormat(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()
	magic := make([]byte, magicLen)
	n, err := io.ReadFull(f, magic)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return FormatUnknown
	}
	return DetectFormat(magic[:n])
}
