// Package fileutil holds small filesystem helpers shared by the downloaders
// and the catalog report writer.
package fileutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic streams r into a temp file beside dest and renames it into
// place, so readers never observe a partial file. When expectedSize is
// non-negative a body of any other length is rejected and dest is left
// untouched.
func WriteAtomic(dest string, r io.Reader, expectedSize int64) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		cleanup()
		return written, fmt.Errorf("copy data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return written, fmt.Errorf("close temp file: %w", err)
	}
	if expectedSize >= 0 && written != expectedSize {
		cleanup()
		return written, fmt.Errorf("size mismatch: expected %d bytes, received %d", expectedSize, written)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return written, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return written, fmt.Errorf("rename into place: %w", err)
	}
	return written, nil
}

// WriteFileAtomic is WriteAtomic for an in-memory payload.
func WriteFileAtomic(dest string, data []byte) error {
	_, err := WriteAtomic(dest, bytes.NewReader(data), int64(len(data)))
	return err
}
