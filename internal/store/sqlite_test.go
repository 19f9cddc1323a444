package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close error: %v", err)
		}
	})
	return s
}

func TestCreateAndGetTransfer(t *testing.T) {
	s := testStore(t)

	rec := &Transfer{
		Method:     "archive",
		SourcePath: "/home/user/Music",
		TargetPath: "/mnt/usb/Music",
		FileCount:  120,
		TotalSize:  1024000,
		Verified:   true,
		Status:     "running",
		StartTime:  time.Now(),
	}
	if err := s.CreateTransfer(rec); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("ID not set after insert")
	}

	got, err := s.GetTransfer(rec.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Method != "archive" {
		t.Errorf("method = %q, want archive", got.Method)
	}
	if got.SourcePath != "/home/user/Music" {
		t.Errorf("source_path = %q", got.SourcePath)
	}
	if got.FileCount != 120 || got.TotalSize != 1024000 {
		t.Errorf("counts = %d/%d", got.FileCount, got.TotalSize)
	}
	if !got.Verified {
		t.Error("verified not persisted")
	}
}

func TestGetTransferNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetTransfer(999)
	if err == nil {
		t.Fatal("expected error for missing transfer")
	}
	if !strings.Contains(err.Error(), "transfer not found") {
		t.Errorf("err = %v", err)
	}
}

func TestUpdateTransfer(t *testing.T) {
	s := testStore(t)

	rec := &Transfer{
		Method:     "copy",
		SourcePath: "/src",
		TargetPath: "/dst",
		Status:     "running",
		StartTime:  time.Now(),
	}
	if err := s.CreateTransfer(rec); err != nil {
		t.Fatalf("create error: %v", err)
	}

	rec.Status = "completed"
	rec.FileCount = 5
	rec.EndTime = time.Now()
	if err := s.UpdateTransfer(rec); err != nil {
		t.Fatalf("update error: %v", err)
	}

	got, err := s.GetTransfer(rec.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Status != "completed" || got.FileCount != 5 {
		t.Errorf("got status=%q file_count=%d", got.Status, got.FileCount)
	}
}

func TestUpdateTransferNotFound(t *testing.T) {
	s := testStore(t)

	err := s.UpdateTransfer(&Transfer{ID: 42, Status: "completed"})
	if err == nil {
		t.Fatal("expected error for missing transfer")
	}
}

func TestListTransfersNewestFirst(t *testing.T) {
	s := testStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		rec := &Transfer{
			Method:     "copy",
			SourcePath: "/src",
			TargetPath: "/dst",
			Status:     "completed",
			StartTime:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateTransfer(rec); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}

	transfers, err := s.ListTransfers(0)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(transfers) != 3 {
		t.Fatalf("got %d transfers, want 3", len(transfers))
	}
	for i := 1; i < len(transfers); i++ {
		if transfers[i].StartTime.After(transfers[i-1].StartTime) {
			t.Error("transfers not ordered newest first")
		}
	}

	limited, err := s.ListTransfers(2)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d transfers with limit 2", len(limited))
	}

	count, err := s.CountTransfers()
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestTransferFiles(t *testing.T) {
	s := testStore(t)

	rec := &Transfer{
		Method:     "copy",
		SourcePath: "/src",
		TargetPath: "/dst",
		Status:     "completed",
		StartTime:  time.Now(),
	}
	if err := s.CreateTransfer(rec); err != nil {
		t.Fatalf("create error: %v", err)
	}

	files := []*TransferFile{
		{TransferID: rec.ID, Path: "album/track02.mp3", Checksum: "beef", Size: 2048, Status: "verified"},
		{TransferID: rec.ID, Path: "track01.mp3", Checksum: "cafe", Size: 1024, Status: "mismatch"},
	}
	for _, f := range files {
		if err := s.AddTransferFile(f); err != nil {
			t.Fatalf("add file error: %v", err)
		}
		if f.ID == 0 {
			t.Error("file ID not set after insert")
		}
	}

	got, err := s.ListTransferFiles(rec.ID)
	if err != nil {
		t.Fatalf("list files error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2", len(got))
	}
	// Ordered by path.
	if got[0].Path != "album/track02.mp3" || got[1].Path != "track01.mp3" {
		t.Errorf("order = [%s, %s]", got[0].Path, got[1].Path)
	}
	if got[1].Status != "mismatch" {
		t.Errorf("status = %q, want mismatch", got[1].Status)
	}

	other, err := s.ListTransferFiles(rec.ID + 1)
	if err != nil {
		t.Fatalf("list files error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unrelated transfer has %d files", len(other))
	}
}
