package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kadajett/musicManager/internal/store"
)

// Engine coordinates transfers: manifest capture, transport dispatch, and
// verification. A single transfer runs synchronously on the calling
// goroutine; an exclusive per-target lock rejects a second transfer into
// the same target while one is in flight.
type Engine struct {
	store  *store.Store // optional; nil disables history recording
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]bool // normalized target paths with a transfer in flight
}

// NewEngine creates an Engine. The store may be nil, in which case no
// transfer history is recorded.
func NewEngine(st *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  st,
		logger: logger,
		active: make(map[string]bool),
	}
}

// CalculateManifest captures a manifest for the tree under root. Files that
// could not be read are reported in the returned BuildReport and logged.
func (e *Engine) CalculateManifest(root string, excludes []string) (*BuildReport, error) {
	report, err := BuildManifest(root, excludes)
	if err != nil {
		return nil, err
	}

	for _, skipped := range report.Skipped {
		e.logger.Warn("file skipped during manifest capture", "path", skipped.Path, "error", skipped.Error)
	}

	e.logger.Info("manifest captured",
		"root", root,
		"files", report.Manifest.FileCount,
		"total_size", report.Manifest.TotalSize,
		"skipped", report.SkippedFiles(),
	)
	return report, nil
}

// VerifyTransfer checks the tree under targetRoot against a previously
// captured manifest.
func (e *Engine) VerifyTransfer(targetRoot string, manifest *Manifest) (*VerifyReport, error) {
	report, err := Verify(targetRoot, manifest)
	if err != nil {
		return nil, err
	}

	e.logger.Info("verification completed",
		"target", targetRoot,
		"verified", report.VerifiedFiles,
		"missing", len(report.Missing),
		"mismatched", len(report.Mismatched),
	)
	return report, nil
}

// Transfer moves the tree at opts.SourcePath into opts.TargetPath using the
// selected transport, optionally bracketing the move with manifest capture
// and verification. Progress milestones are emitted to report; emission is
// best-effort and never changes the outcome.
func (e *Engine) Transfer(ctx context.Context, opts Options, report Reporter) (*Result, error) {
	target, err := e.acquireTarget(opts.TargetPath)
	if err != nil {
		return nil, err
	}
	defer e.releaseTarget(target)

	if _, err := os.Stat(opts.SourcePath); os.IsNotExist(err) {
		return nil, ErrSourceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	method := "copy"
	if opts.CreateArchive {
		method = "archive"
	}
	e.logger.Info("transfer starting",
		"source", opts.SourcePath,
		"target", target,
		"method", method,
		"verify", opts.VerifyTransfer,
	)

	rec := &store.Transfer{
		Method:     method,
		SourcePath: opts.SourcePath,
		TargetPath: target,
		Verified:   opts.VerifyTransfer,
		Status:     "running",
		StartTime:  time.Now(),
	}
	e.recordCreate(rec)

	// Capture the source manifest before any transport step so verification
	// detects corruption introduced in transit, not source drift afterwards.
	var manifest *Manifest
	if opts.VerifyTransfer {
		report.emit(Progress{Status: "Calculating checksums..."})

		buildReport, err := e.CalculateManifest(opts.SourcePath, opts.Excludes)
		if err != nil {
			e.recordFinish(rec, "failed", err.Error())
			return nil, err
		}
		manifest = buildReport.Manifest
	}

	totalFiles := 0
	totalSize := int64(0)
	if manifest != nil {
		totalFiles = manifest.FileCount
		totalSize = manifest.TotalSize
	}

	if err := ctx.Err(); err != nil {
		e.recordFinish(rec, "failed", err.Error())
		return nil, err
	}

	copiedFiles := 0
	copiedSize := int64(0)

	if opts.CreateArchive {
		copiedFiles, copiedSize, err = e.archiveTransport(ctx, opts, target, totalFiles, totalSize, report)
	} else {
		copiedFiles, copiedSize, err = e.copyTransport(opts, target, totalFiles, totalSize, report, rec)
	}
	if err != nil {
		e.recordFinish(rec, "failed", err.Error())
		return nil, err
	}

	report.emit(Progress{
		Status:         "Transfer complete",
		ProcessedFiles: totalFiles,
		TotalFiles:     totalFiles,
		ProcessedSize:  totalSize,
		TotalSize:      totalSize,
	})

	result := &Result{
		Success:          true,
		Message:          "transfer completed successfully",
		TransferredFiles: copiedFiles,
		TotalSize:        copiedSize,
	}
	if manifest != nil {
		result.TransferredFiles = manifest.FileCount
		result.TotalSize = manifest.TotalSize
	}

	if opts.VerifyTransfer && manifest != nil {
		verifyReport, err := e.VerifyTransfer(target, manifest)
		if err != nil {
			e.recordFinish(rec, "failed", err.Error())
			return nil, err
		}

		result = verifyReport.Result
		if result.TransferredFiles == 0 && result.Success {
			// The verifier found nothing to check; fall back to the captured
			// totals so an empty verification does not under-report.
			result.TransferredFiles = manifest.FileCount
			result.TotalSize = manifest.TotalSize
		}

		e.recordVerifyOutcomes(rec, manifest, verifyReport)
	}

	rec.FileCount = result.TransferredFiles
	rec.TotalSize = result.TotalSize
	if result.Success {
		e.recordFinish(rec, "completed", "")
	} else {
		e.recordFinish(rec, "failed", result.Message)
	}

	e.logger.Info("transfer finished",
		"target", target,
		"success", result.Success,
		"files", result.TransferredFiles,
		"total_size", result.TotalSize,
	)
	return result, nil
}

// archiveTransport stages a tar.gz of the source in the system temp
// directory, copies it under the target root, and extracts it there. Both
// archive copies carry a per-invocation unique name and are removed on every
// exit path; archive creation and extraction are opaque, so the milestones
// in between carry coarse estimated fractions rather than measured I/O.
func (e *Engine) archiveTransport(ctx context.Context, opts Options, target string, totalFiles int, totalSize int64, report Reporter) (int, int64, error) {
	report.emit(Progress{
		Status:     "Creating archive...",
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
	})

	archiveName := fmt.Sprintf("transfer-%s.tar.gz", uuid.NewString())
	stagingPath := filepath.Join(os.TempDir(), archiveName)
	defer func() {
		_ = os.Remove(stagingPath)
	}()

	if err := CreateArchive(opts.SourcePath, stagingPath, opts.Excludes); err != nil {
		return 0, 0, fmt.Errorf("failed to create archive: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	report.emit(Progress{
		Status:         "Transferring archive...",
		ProcessedFiles: totalFiles / 2,
		TotalFiles:     totalFiles,
		ProcessedSize:  totalSize / 2,
		TotalSize:      totalSize,
	})

	targetArchive := filepath.Join(target, archiveName)
	defer func() {
		_ = os.Remove(targetArchive)
	}()

	if err := copyFile(stagingPath, targetArchive); err != nil {
		return 0, 0, fmt.Errorf("failed to transfer archive: %w", err)
	}

	report.emit(Progress{
		Status:         "Extracting archive...",
		ProcessedFiles: totalFiles * 3 / 4,
		TotalFiles:     totalFiles,
		ProcessedSize:  totalSize * 3 / 4,
		TotalSize:      totalSize,
	})

	extracted, size, err := ExtractArchive(targetArchive, target)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to extract archive: %w", err)
	}

	return extracted, size, nil
}

// copyTransport runs the direct-copy transport and records per-file
// failures in the transfer history.
func (e *Engine) copyTransport(opts Options, target string, totalFiles int, totalSize int64, report Reporter, rec *store.Transfer) (int, int64, error) {
	copyReport, err := CopyTree(opts.SourcePath, target, opts.Excludes, totalFiles, totalSize, report)
	if err != nil {
		return 0, 0, err
	}

	for _, failed := range copyReport.Failed {
		e.logger.Warn("file copy failed", "path", failed.Path, "error", failed.Error)
		e.recordFile(rec, &store.TransferFile{
			Path:   failed.Path,
			Status: "failed",
		})
	}

	return copyReport.CopiedFiles, copyReport.CopiedSize, nil
}

// acquireTarget normalizes the target path and claims the per-target lock.
func (e *Engine) acquireTarget(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}
	norm := filepath.Clean(abs)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[norm] {
		return "", fmt.Errorf("transfer already in progress for %s", norm)
	}
	e.active[norm] = true
	return norm, nil
}

func (e *Engine) releaseTarget(norm string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, norm)
}

// recordCreate, recordFinish, and recordFile keep transfer history in the
// store. Recording failures are logged and never affect the transfer.
func (e *Engine) recordCreate(rec *store.Transfer) {
	if e.store == nil {
		return
	}
	if err := e.store.CreateTransfer(rec); err != nil {
		e.logger.Warn("failed to record transfer", "error", err)
	}
}

func (e *Engine) recordFinish(rec *store.Transfer, status, errMsg string) {
	if e.store == nil || rec.ID == 0 {
		return
	}
	rec.Status = status
	rec.ErrorMessage = errMsg
	rec.EndTime = time.Now()
	if err := e.store.UpdateTransfer(rec); err != nil {
		e.logger.Warn("failed to update transfer record", "error", err)
	}
}

func (e *Engine) recordFile(rec *store.Transfer, f *store.TransferFile) {
	if e.store == nil || rec.ID == 0 {
		return
	}
	f.TransferID = rec.ID
	if err := e.store.AddTransferFile(f); err != nil {
		e.logger.Warn("failed to record transfer file", "path", f.Path, "error", err)
	}
}

// recordVerifyOutcomes writes one row per manifest entry with its
// verification status.
func (e *Engine) recordVerifyOutcomes(rec *store.Transfer, manifest *Manifest, report *VerifyReport) {
	if e.store == nil || rec.ID == 0 {
		return
	}

	missing := make(map[string]bool, len(report.Missing))
	for _, p := range report.Missing {
		missing[p] = true
	}
	mismatched := make(map[string]bool, len(report.Mismatched))
	for _, p := range report.Mismatched {
		mismatched[p] = true
	}

	for _, entry := range manifest.Checksums {
		status := "verified"
		if missing[entry.Path] {
			status = "missing"
		} else if mismatched[entry.Path] {
			status = "mismatch"
		}
		e.recordFile(rec, &store.TransferFile{
			Path:     entry.Path,
			Checksum: entry.Checksum,
			Status:   status,
		})
	}
}
