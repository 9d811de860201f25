package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeJPEG is a minimal JPEG header followed by filler bytes.
var FakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	writeBytes(t, path, data)
}

// WriteImage stores a fake cover for appID-named files under dir.
func WriteImage(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeBytes(t, path, FakeJPEG)
	return path
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
