package transfer

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/Kadajett/musicManager/internal/safety"
)

// CreateArchive serializes the tree under sourceRoot into a gzip-compressed
// tar file at archivePath. Entry names are the forward-slash paths relative
// to sourceRoot, so the archive is self-describing and extraction needs no
// manifest. Any failure mid-walk aborts the build; a partially written
// archive left on disk is not a trusted artifact.
func CreateArchive(sourceRoot, archivePath string, excludes []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	walkErr := Walk(sourceRoot, excludes, func(absPath, relPath string, info fs.FileInfo) error {
		return addFileToTar(tw, absPath, relPath, info)
	})

	// Close in reverse order so the gzip trailer and tar footer are flushed.
	if err := tw.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("closing tar writer: %w", err)
	}
	if err := gzw.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("closing gzip writer: %w", err)
	}
	if err := out.Close(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("closing archive file: %w", err)
	}

	return walkErr
}

// addFileToTar appends a single file to the tar stream under the given
// entry name.
func addFileToTar(tw *tar.Writer, srcPath, entryName string, info fs.FileInfo) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	header := &tar.Header{
		Name:    entryName,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", entryName, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("writing %s: %w", entryName, err)
	}
	return nil
}

// ExtractArchive expands a tar.gz archive into targetRoot, recreating the
// directory structure its entry names describe. Entries that would escape
// targetRoot and non-regular entries (symlinks, devices) are rejected.
// Returns the number of files extracted and their total byte size.
func ExtractArchive(archivePath, targetRoot string) (int, int64, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return 0, 0, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() {
		_ = gzr.Close()
	}()

	tr := tar.NewReader(gzr)

	extracted := 0
	totalSize := int64(0)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return extracted, totalSize, fmt.Errorf("reading tar entry: %w", err)
		}

		if header.Typeflag == tar.TypeDir {
			continue
		}
		if header.Typeflag != tar.TypeReg {
			return extracted, totalSize, fmt.Errorf("unsupported tar entry type for %s: %c", header.Name, header.Typeflag)
		}

		destPath, err := safety.SafeJoinUnder(targetRoot, header.Name)
		if err != nil {
			return extracted, totalSize, fmt.Errorf("unsafe path in archive %q: %w", header.Name, err)
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return extracted, totalSize, fmt.Errorf("creating directory: %w", err)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			return extracted, totalSize, fmt.Errorf("creating file %s: %w", destPath, err)
		}

		n, err := io.Copy(outFile, tr)
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return extracted, totalSize, fmt.Errorf("extracting %s: %w", header.Name, err)
		}

		extracted++
		totalSize += n
	}

	return extracted, totalSize, nil
}
