package fileutil

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// FileExists returns true if a file or directory with the given path exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir returns true if a directory with the given path exists.
func IsDir(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.IsDir()
}

// HashBytes returns the hex encoded md5 digest of b.
func HashBytes(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex encoded md5 digest of the file at the given path.
// The digest matches HashBytes() applied to the file's contents.
func HashFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: path=%s err=%w", filename, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// FindFileIf walks every regular file rooted at root, in lexical order, and
// returns the path of the first one for which pred returns true. It returns
// the empty string if no file matches. A nonexistent root contains no files.
// Symlinks and other irregular files are not visited.
func FindFileIf(root string, pred func(path string) (bool, error)) (string, error) {
	var found string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		ok, err := pred(path)
		if err != nil {
			return err
		}
		if ok {
			found = path
			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return found, nil
}

// WriteFileAtomic writes b to the named file. The data first goes to a hidden
// temporary file in the same directory, which is then renamed into place, so
// readers never observe a partially written file.
func WriteFileAtomic(filename string, b []byte, perm fs.FileMode) error {
	dir := filepath.Dir(filename)
	tmpPath := filepath.Join(dir, "."+uuid.NewString()+".tmp")

	log.Debugf("writing: %s --> %s", tmpPath, filename)

	err := os.WriteFile(tmpPath, b, perm)
	if err != nil {
		return err
	}

	err = os.Rename(tmpPath, filename)
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
