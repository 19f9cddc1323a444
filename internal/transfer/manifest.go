package transfer

import (
	"fmt"
	"os"
)

// BuildReport carries a captured manifest together with the files that had
// to be skipped because they could not be read. Skipped files are invisible
// to the manifest itself; callers decide whether that is acceptable.
type BuildReport struct {
	Manifest *Manifest   `json:"manifest"`
	Skipped  []FileError `json:"skipped,omitempty"`
}

// SkippedFiles returns the number of files excluded from the manifest due to
// read failures.
func (r *BuildReport) SkippedFiles() int {
	return len(r.Skipped)
}

// BuildManifest walks the tree under root and computes one checksum per
// regular file. TotalSize is accumulated from filesystem metadata, not bytes
// read. A file whose checksum cannot be computed is recorded in the report's
// Skipped list and left out of the manifest; a directory that cannot be
// walked fails the whole build.
func BuildManifest(root string, excludes []string) (*BuildReport, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, ErrSourceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	manifest := &Manifest{}
	report := &BuildReport{Manifest: manifest}

	err := Walk(root, excludes, func(absPath, relPath string, info os.FileInfo) error {
		checksum, err := ChecksumFile(absPath)
		if err != nil {
			report.Skipped = append(report.Skipped, FileError{Path: relPath, Error: err.Error()})
			return nil
		}

		manifest.Checksums = append(manifest.Checksums, FileChecksum{
			Path:     relPath,
			Checksum: checksum,
		})
		manifest.TotalSize += info.Size()
		manifest.FileCount++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return report, nil
}
