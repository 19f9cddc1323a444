package transfer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestChecksumFileKnownVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sum, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("checksum error: %v", err)
	}

	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum != want {
		t.Errorf("checksum = %q, want %q", sum, want)
	}
}

func TestChecksumFileLargerThanChunk(t *testing.T) {
	// Content spanning multiple read chunks, with a non-aligned tail.
	content := bytes.Repeat([]byte("abcdefgh"), 3000)
	content = append(content, 'x')

	path := filepath.Join(t.TempDir(), "big.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sum, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("checksum error: %v", err)
	}

	raw := sha256.Sum256(content)
	if want := hex.EncodeToString(raw[:]); sum != want {
		t.Errorf("checksum = %q, want %q", sum, want)
	}
}

func TestChecksumFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sum, err := ChecksumFile(path)
	if err != nil {
		t.Fatalf("checksum error: %v", err)
	}

	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if sum != want {
		t.Errorf("checksum = %q, want %q", sum, want)
	}
}

func TestChecksumFileMissing(t *testing.T) {
	if _, err := ChecksumFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
