package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/qbank/internal/csv"
	"github.com/JonMunkholm/qbank/internal/web/templates"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 8 << 20

// formFile extracts the "file" part, bounding the body at the import size limit.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if limit := s.cfg.Import.MaxFileSize; limit > 0 {
		// Leave room for the multipart envelope.
		r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, fmt.Errorf("upload: %w", csv.ErrFileTooLarge)
		}
		return nil, nil, errNoFile
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errNoFile
	}
	return file, header, nil
}

// handleImport merges an uploaded question CSV into the store.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer file.Close()

	ctx := r.Context()
	if t := s.cfg.Import.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	result, err := s.service.ImportCSV(ctx, header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}

	if wantsHTML(r) {
		w.Header().Set("HX-Trigger", "questions-changed")
		_ = templates.ImportSummary(result).Render(ctx, w)
		return
	}
	writeJSON(w, result)
}

// handleImportStatus returns the current state of the import limiter.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ImportStatus())
}

// handleHistoryUpload replaces the exam history with an uploaded CSV.
func (s *Server) handleHistoryUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer file.Close()

	n, err := s.service.LoadHistory(r.Context(), header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"file_name": header.Filename, "entries": n})
}
