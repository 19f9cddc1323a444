package transfer

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates the given files under root, keyed by slash-relative
// path, creating parent directories as needed.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// checksumsByPath indexes a manifest's entries by path so comparisons are
// order-insensitive.
func checksumsByPath(m *Manifest) map[string]string {
	out := make(map[string]string, len(m.Checksums))
	for _, c := range m.Checksums {
		out[c.Path] = c.Checksum
	}
	return out
}
