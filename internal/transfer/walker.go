package transfer

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// WalkFunc is called once per regular file found under the walk root.
// absPath is the on-disk path, relPath is forward-slash normalized and
// relative to the root. Returning an error aborts the walk.
type WalkFunc func(absPath, relPath string, info fs.FileInfo) error

// Walk enumerates every regular file reachable under root by recursive
// descent, in filesystem enumeration order. Directories are not yielded and
// the order is not sorted; callers needing determinism must sort themselves.
// Paths matching an exclude pattern (doublestar syntax, matched against the
// slash-relative path) are skipped. A directory that cannot be read aborts
// the walk with the underlying error.
func Walk(root string, excludes []string, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(excludes, rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		return fn(path, rel, info)
	})
}

// matchesAny reports whether relPath matches any of the given doublestar
// patterns. Malformed patterns never match.
func matchesAny(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}
