package web

import (
	"bytes"
	"errors"
	"mime"
	"net/http"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/stats"
	"github.com/JonMunkholm/qbank/internal/web/templates"
)

// writeAttachment sends body as a download named filename.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, _ = w.Write(body)
}

// exportCSV answers 204 when there is nothing to export.
func exportCSV(w http.ResponseWriter, r *http.Request, filename string, export func() (string, error)) {
	text, err := export()
	if errors.Is(err, core.ErrEmptyExportSet) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", filename, []byte(text))
}

// handleExportNew downloads the records authored in this session.
func (s *Server) handleExportNew(w http.ResponseWriter, r *http.Request) {
	exportCSV(w, r, s.cfg.Export.NewFileName, s.service.ExportAuthored)
}

// handleExportUpdated downloads the whole store.
func (s *Server) handleExportUpdated(w http.ResponseWriter, r *http.Request) {
	exportCSV(w, r, s.cfg.Export.UpdatedFileName, s.service.ExportStore)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report := stats.Build(s.service.Records())
	if wantsHTML(r) {
		_ = templates.StatsTables(report).Render(r.Context(), w)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleStatsXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := stats.WriteXLSX(&buf, stats.Build(s.service.Records())); err != nil {
		fail(w, r, err)
		return
	}
	writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "stats.xlsx", buf.Bytes())
}
