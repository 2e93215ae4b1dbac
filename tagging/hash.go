package tagging

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

func HashFile(filepath string) (string, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return "", ioErr("open", filepath, err)
	}
	defer f.Close()
	hasher := sha256.New()
	_, err = io.Copy(hasher, f)
	if err != nil {
		return "", ioErr("read", filepath, err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
