package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VerifyReport itemizes the outcome of checking a target tree against a
// previously captured manifest. Verification is read-only.
type VerifyReport struct {
	Result        *Result  `json:"result"`
	VerifiedFiles int      `json:"verified_files"`
	VerifiedSize  int64    `json:"verified_size"`
	Missing       []string `json:"missing,omitempty"`
	Mismatched    []string `json:"mismatched,omitempty"`
}

// Verify recomputes the checksum of every manifest entry under targetRoot
// and diffs it against the recorded digest. Each entry is either verified,
// missing (absent at the target), or mismatched (present with a different
// digest). The result succeeds iff there are zero missing and zero
// mismatched entries; otherwise the message enumerates every discrepancy,
// one line each. An I/O error while recomputing a checksum is fatal.
func Verify(targetRoot string, manifest *Manifest) (*VerifyReport, error) {
	if _, err := os.Stat(targetRoot); os.IsNotExist(err) {
		return nil, ErrTargetNotFound
	} else if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}

	report := &VerifyReport{}

	for _, entry := range manifest.Checksums {
		targetFile := filepath.Join(targetRoot, filepath.FromSlash(entry.Path))

		info, err := os.Stat(targetFile)
		if os.IsNotExist(err) {
			report.Missing = append(report.Missing, entry.Path)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Path, err)
		}

		checksum, err := ChecksumFile(targetFile)
		if err != nil {
			return nil, fmt.Errorf("calculating checksum: %w", err)
		}

		if checksum != entry.Checksum {
			report.Mismatched = append(report.Mismatched, entry.Path)
			continue
		}

		report.VerifiedFiles++
		report.VerifiedSize += info.Size()
	}

	report.Result = verifyResult(report)
	return report, nil
}

// verifyResult renders the report as a terminal Result value.
func verifyResult(r *VerifyReport) *Result {
	if len(r.Missing) == 0 && len(r.Mismatched) == 0 {
		return &Result{
			Success:          true,
			Message:          fmt.Sprintf("successfully verified %d files", r.VerifiedFiles),
			TransferredFiles: r.VerifiedFiles,
			TotalSize:        r.VerifiedSize,
		}
	}

	lines := make([]string, 0, len(r.Missing)+len(r.Mismatched))
	for _, p := range r.Missing {
		lines = append(lines, "missing file: "+p)
	}
	for _, p := range r.Mismatched {
		lines = append(lines, "checksum mismatch for: "+p)
	}

	return &Result{
		Success:          false,
		Message:          "transfer verification failed:\n" + strings.Join(lines, "\n"),
		TransferredFiles: r.VerifiedFiles,
		TotalSize:        r.VerifiedSize,
	}
}
