package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for transfer history
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a new Store, opening the SQLite database and running migrations
func New(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("store initialized", "path", dbPath)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// ============================================================================
// Transfer Operations
// ============================================================================

// CreateTransfer inserts a new Transfer and sets its ID
func (s *Store) CreateTransfer(t *Transfer) error {
	const query = `
		INSERT INTO transfers (
			method, source_path, target_path, file_count, total_size,
			verified, status, error_message, start_time, end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(
		query,
		t.Method, t.SourcePath, t.TargetPath, t.FileCount, t.TotalSize,
		t.Verified, t.Status, t.ErrorMessage, t.StartTime, t.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	t.ID = id
	return nil
}

// UpdateTransfer updates an existing Transfer by ID
func (s *Store) UpdateTransfer(t *Transfer) error {
	const query = `
		UPDATE transfers SET
			method = ?, source_path = ?, target_path = ?, file_count = ?,
			total_size = ?, verified = ?, status = ?,
			error_message = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`

	result, err := s.db.Exec(
		query,
		t.Method, t.SourcePath, t.TargetPath, t.FileCount, t.TotalSize,
		t.Verified, t.Status, t.ErrorMessage, t.StartTime, t.EndTime, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("transfer not found: %d", t.ID)
	}

	return nil
}

// GetTransfer retrieves a Transfer by ID
func (s *Store) GetTransfer(id int64) (*Transfer, error) {
	const query = `
		SELECT id, method, source_path, target_path, file_count, total_size,
		       verified, status, error_message, start_time, end_time
		FROM transfers WHERE id = ?
	`

	t := &Transfer{}
	err := s.db.QueryRow(query, id).Scan(
		&t.ID, &t.Method, &t.SourcePath, &t.TargetPath, &t.FileCount,
		&t.TotalSize, &t.Verified, &t.Status, &t.ErrorMessage,
		&t.StartTime, &t.EndTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transfer not found: %d", id)
		}
		return nil, fmt.Errorf("failed to query transfer: %w", err)
	}

	return t, nil
}

// ListTransfers retrieves Transfers ordered by start time, newest first
func (s *Store) ListTransfers(limit int) ([]Transfer, error) {
	query := `
		SELECT id, method, source_path, target_path, file_count, total_size,
		       verified, status, error_message, start_time, end_time
		FROM transfers ORDER BY start_time DESC
	`

	var rows *sql.Rows
	var err error

	if limit > 0 {
		query += " LIMIT ?"
		rows, err = s.db.Query(query, limit)
	} else {
		rows, err = s.db.Query(query)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []Transfer
	for rows.Next() {
		t := Transfer{}
		err := rows.Scan(
			&t.ID, &t.Method, &t.SourcePath, &t.TargetPath, &t.FileCount,
			&t.TotalSize, &t.Verified, &t.Status, &t.ErrorMessage,
			&t.StartTime, &t.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfers: %w", err)
	}

	return transfers, nil
}

// CountTransfers returns the total number of recorded transfers
func (s *Store) CountTransfers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transfers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transfers: %w", err)
	}
	return count, nil
}

// ============================================================================
// TransferFile Operations
// ============================================================================

// AddTransferFile inserts a per-file outcome row and sets its ID
func (s *Store) AddTransferFile(f *TransferFile) error {
	const query = `
		INSERT INTO transfer_files (transfer_id, path, checksum, size, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query, f.TransferID, f.Path, f.Checksum, f.Size, f.Status)
	if err != nil {
		return fmt.Errorf("failed to insert transfer file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	f.ID = id
	return nil
}

// ListTransferFiles retrieves all per-file outcomes for a transfer
func (s *Store) ListTransferFiles(transferID int64) ([]TransferFile, error) {
	const query = `
		SELECT id, transfer_id, path, checksum, size, status
		FROM transfer_files WHERE transfer_id = ? ORDER BY path
	`

	rows, err := s.db.Query(query, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer files: %w", err)
	}
	defer rows.Close()

	var files []TransferFile
	for rows.Next() {
		f := TransferFile{}
		err := rows.Scan(&f.ID, &f.TransferID, &f.Path, &f.Checksum, &f.Size, &f.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer files: %w", err)
	}

	return files, nil
}
