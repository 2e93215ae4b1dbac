package tagging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// renameFile is swapped in tests to simulate a failing final step
var renameFile = os.Rename

// writeFileAtomic replaces filename with data. The bytes go to a temporary
// file in the same directory which is synced and then renamed over the
// target, so readers see either the old or the new content.
func writeFileAtomic(filename string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(filename)
	tempFile := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(filename), uuid.New()))

	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return ioErr("create temporary file", tempFile, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := os.Remove(tempFile); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = multierror.Append(err, ioErr("remove temporary file", tempFile, rmErr))
		}
	}()

	if _, err = f.Write(data); err != nil {
		return multierror.Append(ioErr("write", tempFile, err), closeErr(f)).ErrorOrNil()
	}
	if err = f.Sync(); err != nil {
		return multierror.Append(ioErr("sync", tempFile, err), closeErr(f)).ErrorOrNil()
	}
	if err = f.Close(); err != nil {
		return ioErr("close", tempFile, err)
	}
	if err = os.Chmod(tempFile, perm); err != nil {
		return ioErr("chmod", tempFile, err)
	}
	if err = renameFile(tempFile, filename); err != nil {
		return ioErr("rename", filename, err)
	}
	syncDir(dir)
	return nil
}

func closeErr(f *os.File) error {
	if err := f.Close(); err != nil {
		return ioErr("close", f.Name(), err)
	}
	return nil
}

// syncDir persists the rename. Some platforms cannot fsync directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
