package transfer

import (
	"io/fs"
	"sort"
	"testing"
)

func TestWalkRegularFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":         "aaa",
		"sub/b.txt":     "bbb",
		"sub/deep/c.md": "ccc",
	})

	var paths []string
	err := Walk(root, nil, func(absPath, relPath string, info fs.FileInfo) error {
		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}

	sort.Strings(paths)
	want := []string{"a.txt", "sub/b.txt", "sub/deep/c.md"}
	if len(paths) != len(want) {
		t.Fatalf("walked %d files, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestWalkExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":          "aaa",
		"skip.tmp":       "tmp",
		"sub/nested.tmp": "tmp",
		".DS_Store":      "junk",
		"sub/b.txt":      "bbb",
	})

	var paths []string
	excludes := []string{"**/*.tmp", "*.tmp", ".DS_Store"}
	err := Walk(root, excludes, func(absPath, relPath string, info fs.FileInfo) error {
		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		t.Fatalf("walk error: %v", err)
	}

	sort.Strings(paths)
	want := []string{"a.txt", "sub/b.txt"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("walked %v, want %v", paths, want)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk("/nonexistent/path/for/test", nil, func(absPath, relPath string, info fs.FileInfo) error {
		t.Fatal("callback should not run")
		return nil
	})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}
