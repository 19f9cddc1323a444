package transfer

import "errors"

// Errors surfaced to callers of the engine's entry points.
var (
	ErrSourceNotFound = errors.New("source path does not exist")
	ErrTargetNotFound = errors.New("target path does not exist")
	ErrNoFilesCopied  = errors.New("no files were copied")
)

// FileChecksum pairs a file's root-relative path with its content digest.
// Path always uses forward slashes so manifests are portable across platforms.
type FileChecksum struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"` // lowercase hex SHA-256
}

// Manifest records one checksum per file under a transfer root, plus
// aggregate totals taken from filesystem metadata at capture time.
// A manifest is immutable once built; callers may persist it and verify
// a target tree against it later.
type Manifest struct {
	Checksums []FileChecksum `json:"checksums"`
	TotalSize int64          `json:"total_size"`
	FileCount int            `json:"file_count"`
}

// FileError records a per-file failure that degraded, but did not abort,
// an operation.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Options configures a single transfer invocation. Read-only to the engine.
type Options struct {
	SourcePath     string   `json:"source_path"`
	TargetPath     string   `json:"target_path"`
	CreateArchive  bool     `json:"create_archive"`
	VerifyTransfer bool     `json:"verify_transfer"`
	Excludes       []string `json:"excludes,omitempty"` // doublestar patterns, slash-relative
}

// Progress is a milestone update streamed while a transfer runs. It is
// advisory telemetry only and is never persisted.
type Progress struct {
	Status         string `json:"status"`
	CurrentFile    string `json:"current_file,omitempty"`
	ProcessedFiles int    `json:"processed_files"`
	TotalFiles     int    `json:"total_files"`
	ProcessedSize  int64  `json:"processed_size"`
	TotalSize      int64  `json:"total_size"`
}

// Result is the terminal value of a transfer or verification.
type Result struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	TransferredFiles int    `json:"transferred_files"`
	TotalSize        int64  `json:"total_size"`
}
