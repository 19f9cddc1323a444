package store

import "time"

// Transfer records one transfer invocation.
type Transfer struct {
	ID           int64
	Method       string // "archive" or "copy"
	SourcePath   string
	TargetPath   string
	FileCount    int
	TotalSize    int64
	Verified     bool
	Status       string // "running", "completed", "failed"
	ErrorMessage string
	StartTime    time.Time
	EndTime      time.Time
}

// TransferFile records the outcome for a single file within a transfer.
type TransferFile struct {
	ID         int64
	TransferID int64
	Path       string // relative to the transfer root, forward slashes
	Checksum   string
	Size       int64
	Status     string // "copied", "verified", "mismatch", "missing", "failed"
}
