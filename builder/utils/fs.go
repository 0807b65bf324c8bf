package utils

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data through a temp file and a rename so readers
// never observe a half-written file.
func WriteFileAtomic(fs afero.Fs, name string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	tmpPath := name + ".tmp"
	f, err := fs.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := fs.Rename(tmpPath, name); err != nil {
		_ = fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// CopyFile copies a file between two filesystems.
func CopyFile(srcFs, destFs afero.Fs, src, dst string) error {
	data, err := afero.ReadFile(srcFs, src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	return WriteFileAtomic(destFs, dst, data)
}

// SafeBaseName returns the final element of name, rejecting anything that
// could escape the directory it is joined to.
func SafeBaseName(name string) (string, error) {
	cleaned := strings.ReplaceAll(name, "\\", "/")
	base := path.Base(cleaned)
	switch {
	case base == "" || base == "." || base == ".." || base == "/":
		return "", fmt.Errorf("invalid file name %q", name)
	case strings.HasPrefix(base, "."):
		return "", fmt.Errorf("hidden file name %q", name)
	}
	return base, nil
}

// IsTempFile reports whether name is a leftover of WriteFileAtomic.
func IsTempFile(name string) bool {
	return strings.HasSuffix(name, ".tmp")
}

// Exists is afero.Exists without the error for callers that only branch on it.
func Exists(fs afero.Fs, name string) bool {
	ok, err := afero.Exists(fs, name)
	return err == nil && ok
}

// IsNotExist unwraps afero/os path errors.
func IsNotExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist)
}
