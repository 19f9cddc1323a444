package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kadajett/musicManager/internal/device"
	"github.com/Kadajett/musicManager/internal/store"
	"github.com/Kadajett/musicManager/internal/transfer"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// checksumRequest is the body for POST /api/checksum.
type checksumRequest struct {
	Path     string   `json:"path"`
	Excludes []string `json:"excludes,omitempty"`
}

// handleAPIChecksum captures a manifest for a directory tree.
func (s *Server) handleAPIChecksum(w http.ResponseWriter, r *http.Request) {
	var req checksumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	report, err := s.engine.CalculateManifest(req.Path, req.Excludes)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"manifest": report.Manifest,
		"skipped":  report.Skipped,
	})
}

// verifyRequest is the body for POST /api/verify.
type verifyRequest struct {
	TargetPath string             `json:"target_path"`
	Manifest   *transfer.Manifest `json:"manifest"`
}

// handleAPIVerify checks a target tree against a manifest.
func (s *Server) handleAPIVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TargetPath == "" {
		writeError(w, http.StatusBadRequest, "target_path is required")
		return
	}
	if req.Manifest == nil {
		writeError(w, http.StatusBadRequest, "manifest is required")
		return
	}

	report, err := s.engine.VerifyTransfer(req.TargetPath, req.Manifest)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleAPITransfer runs a transfer, streaming progress over SSE. The
// stream carries transfer-progress events followed by a single
// transfer-result event.
func (s *Server) handleAPITransfer(w http.ResponseWriter, r *http.Request) {
	var opts transfer.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if opts.SourcePath == "" || opts.TargetPath == "" {
		writeError(w, http.StatusBadRequest, "source_path and target_path are required")
		return
	}

	// Stream SSE events
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	sendEvent := func(event string, data interface{}) {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
		flusher.Flush()
	}

	tracker := transfer.NewTracker()
	go func() {
		result, err := s.engine.Transfer(r.Context(), opts, tracker.Publish)
		if err != nil {
			s.logger.Warn("transfer failed", "source", opts.SourcePath, "target", opts.TargetPath, "error", err)
			result = &transfer.Result{Success: false, Message: err.Error()}
		}
		tracker.Finish(result)
	}()

	ctx := r.Context()
	var lastSent transfer.Progress
	for {
		wait := tracker.Wait()

		progress, result, done := tracker.Snapshot()
		if progress != lastSent {
			lastSent = progress
			sendEvent("transfer-progress", progress)
		}
		if done {
			sendEvent("transfer-result", result)
			return
		}

		select {
		case <-ctx.Done():
			// The engine sees the same context and unwinds on its own.
			return
		case <-wait:
		}
	}
}

// handleAPITransfers returns JSON list of recent transfers.
func (s *Server) handleAPITransfers(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.Transfer{})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	transfers, err := s.store.ListTransfers(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if transfers == nil {
		transfers = []store.Transfer{}
	}

	writeJSON(w, http.StatusOK, transfers)
}

// handleAPITransferFiles returns per-file outcomes for one transfer.
func (s *Server) handleAPITransferFiles(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.TransferFile{})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer id")
		return
	}

	files, err := s.store.ListTransferFiles(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []store.TransferFile{}
	}

	writeJSON(w, http.StatusOK, files)
}

// handleAPIDevices returns the currently mounted devices.
func (s *Server) handleAPIDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := device.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if devices == nil {
		devices = []device.Device{}
	}

	writeJSON(w, http.StatusOK, devices)
}

// handleAPIDevicesWatch streams device-list changes over SSE as
// devices-changed events, starting with the current list.
func (s *Server) handleAPIDevicesWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	sendEvent := func(event string, data interface{}) {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
		flusher.Flush()
	}

	if devices, err := device.List(); err == nil {
		sendEvent("devices-changed", devices)
	}

	watcher := device.NewWatcher(2*time.Second, s.logger)
	watcher.Start()
	defer watcher.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case devices, ok := <-watcher.Events():
			if !ok {
				return
			}
			sendEvent("devices-changed", devices)
		}
	}
}

// handleAPIBrowse lists a directory, directories first.
func (s *Server) handleAPIBrowse(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("path")
	if base == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	rel := r.URL.Query().Get("rel")

	entries, err := device.ListDir(base, rel)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if entries == nil {
		entries = []device.FileItem{}
	}

	writeJSON(w, http.StatusOK, entries)
}
