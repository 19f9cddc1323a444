package transfer

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyReport summarizes a direct-copy transport run. Per-file failures are
// collected here rather than aborting the walk; only a walk-level error or
// an empty result is fatal to the operation.
type CopyReport struct {
	CopiedFiles int         `json:"copied_files"`
	CopiedSize  int64       `json:"copied_size"`
	Failed      []FileError `json:"failed,omitempty"`
}

// CopyTree copies every regular file under sourceRoot to the same relative
// path under targetRoot, creating parent directories as needed. Content is
// preserved byte for byte; filesystem metadata is not. One progress update
// is emitted per file, before its copy begins, so the counts reflect state
// prior to the in-flight file. totalFiles/totalSize seed the progress totals
// (zero when no manifest was captured).
func CopyTree(sourceRoot, targetRoot string, excludes []string, totalFiles int, totalSize int64, report Reporter) (*CopyReport, error) {
	cr := &CopyReport{}

	err := Walk(sourceRoot, excludes, func(absPath, relPath string, info fs.FileInfo) error {
		report.emit(Progress{
			Status:         "Copying files...",
			CurrentFile:    relPath,
			ProcessedFiles: cr.CopiedFiles,
			TotalFiles:     totalFiles,
			ProcessedSize:  cr.CopiedSize,
			TotalSize:      totalSize,
		})

		destPath := filepath.Join(targetRoot, filepath.FromSlash(relPath))
		if err := copyFile(absPath, destPath); err != nil {
			cr.Failed = append(cr.Failed, FileError{Path: relPath, Error: err.Error()})
			return nil
		}

		cr.CopiedFiles++
		cr.CopiedSize += info.Size()
		return nil
	})
	if err != nil {
		return cr, fmt.Errorf("copying files: %w", err)
	}

	if cr.CopiedFiles == 0 {
		return cr, ErrNoFilesCopied
	}

	return cr, nil
}

// copyFile copies src to dst byte for byte, creating dst's parent directory
// if absent.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating target: %w", err)
	}

	_, err = io.Copy(out, in)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing target: %w", err)
	}
	return nil
}
