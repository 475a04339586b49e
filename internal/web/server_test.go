package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/qbank/internal/config"
	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/masterdata"
	"github.com/JonMunkholm/qbank/internal/metrics"
)

const bankCSV = "問題ID,症例ID,タイトル,問題文,正解,状態\n" +
	"Q1,C1,Heart,<p>ECG shows ST elevation</p>,a,true\n" +
	"Q1R1,C1,Heart v2,revised stem,b,false\n" +
	"Q2,,Lung,chest x-ray,c,true\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Import: config.ImportConfig{MaxFileSize: 1 << 20, MaxConcurrent: 2, MaxWaitTime: time.Second, Timeout: 5 * time.Second},
		Export: config.ExportConfig{NewFileName: "new.csv", UpdatedFileName: "new_update.csv"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keywords.json"), []byte(`["ECG", "echo", "CT"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates.json"),
		[]byte(`[{"id": "t1", "label": "Note", "insertText": "<b>Note</b><img src=x>"}]`), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := core.NewService(core.Options{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
	})
	return NewServer(cfg, svc, masterdata.NewStore(dir, logger), metrics.New())
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, path, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if name != "" {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func importBank(t *testing.T, s *Server) {
	t.Helper()
	rec := do(t, s, uploadRequest(t, "/api/import", "bank.csv", bankCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestImport(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, uploadRequest(t, "/api/import", "bank.csv", bankCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[core.ImportResult](t, rec)
	assert.Equal(t, "bank.csv", res.FileName)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 3, res.StoreSize)
	assert.NotEmpty(t, res.ImportID)
}

func TestImport_HTMXSummary(t *testing.T) {
	s := newTestServer(t, testConfig())
	req := uploadRequest(t, "/api/import", "bank.csv", bankCSV)
	req.Header.Set("HX-Request", "true")

	rec := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "questions-changed", rec.Header().Get("HX-Trigger"))
	assert.Contains(t, rec.Body.String(), "3 inserted")
}

func TestImport_Errors(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		s := newTestServer(t, testConfig())
		rec := do(t, s, uploadRequest(t, "/api/import", "", ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "FILE002", decode[ErrorResponse](t, rec).Code)
	})

	t.Run("too large", func(t *testing.T) {
		cfg := testConfig()
		cfg.Import.MaxFileSize = 16
		s := newTestServer(t, cfg)
		rec := do(t, s, uploadRequest(t, "/api/import", "bank.csv", bankCSV))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "FILE001", decode[ErrorResponse](t, rec).Code)

		list := do(t, s, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
		assert.Equal(t, 0.0, decode[map[string]any](t, list)["count"])
	})

	t.Run("htmx error partial", func(t *testing.T) {
		s := newTestServer(t, testConfig())
		req := uploadRequest(t, "/api/import", "", "")
		req.Header.Set("HX-Request", "true")
		rec := do(t, s, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "FILE002")
	})
}

func TestListAndDetail(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/questions?q=ecg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Count     int            `json:"count"`
		Questions []core.ListRow `json:"questions"`
	}](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Q1", list.Questions[0].ID)
	assert.Equal(t, "ECG shows ST elevation", list.Questions[0].Excerpt)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/questions/Q1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[core.Detail](t, rec)
	assert.Equal(t, core.CaseMulti, detail.Case.Kind)
	assert.Len(t, detail.Revisions.Members, 2)
	assert.NotNil(t, detail.History)

	req := httptest.NewRequest(http.MethodGet, "/api/questions/Q2", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Case ID:</strong> n/a")

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/questions/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REC001", decode[ErrorResponse](t, rec).Code)
}

func TestCasesAndRevisions(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/cases/C1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Q1", "Q1R1"}, decode[core.CaseGroup](t, rec).MemberIDs)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/cases/C9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/revisions/Q1R1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Q1", decode[core.RevisionGroup](t, rec).BaseID)
}

func TestHistoryUpload(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, uploadRequest(t, "/api/history", "history.csv",
		"question_id,exam_name,exam_date,question_number,correct_rate\nQ1,Midterm,2023-07-01,4,0.7\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode[map[string]any](t, rec)["entries"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/questions/Q1", nil))
	detail := decode[core.Detail](t, rec)
	require.Len(t, detail.History, 1)
	assert.Equal(t, "Midterm", detail.History[0].ExamName)
}

func TestFormEditLockFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, jsonRequest(http.MethodPost, "/api/form/mode", `{"mode":"edit","question_id":"Q1"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	form := decode[formResponse](t, rec)
	assert.True(t, form.Locked)
	assert.False(t, form.Editable[core.FieldQuestionText])
	assert.True(t, form.Editable[core.FieldKeywords])

	save := `{"fields":{"keywords":"ECG","title":"ignored","unknown":"x"}}`
	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/save", save))
	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.Equal(t, "FORM001", decode[ErrorResponse](t, rec).Code)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/unlock", `{"confirm":false}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FORM002", decode[ErrorResponse](t, rec).Code)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/unlock", `{"confirm":true}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[formResponse](t, rec).Locked)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/save", save))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[saveResponse](t, rec)
	assert.Equal(t, core.SaveUpdate, out.Kind)
	assert.Equal(t, "ECG", out.Record[core.FieldKeywords])
	assert.Equal(t, "Heart", out.Record[core.FieldTitle])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/journal?severity=critical", nil))
	journal := decode[struct {
		Count   int                 `json:"count"`
		Entries []core.JournalEntry `json:"entries"`
	}](t, rec)
	require.Equal(t, 1, journal.Count)
	assert.Equal(t, core.ActionUnlock, journal.Entries[0].Action)
	assert.Equal(t, "Q1", journal.Entries[0].QuestionID)
}

func TestFormMode_Validation(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"unknown mode", `{"mode":"purge"}`, "mode"},
		{"edit without id", `{"mode":"edit"}`, "question_id"},
		{"malformed json", `{"mode":`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, jsonRequest(http.MethodPost, "/api/form/mode", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, "REQ001", resp.Code)
			assert.Contains(t, resp.Fields, tt.wantField)
		})
	}

	rec := do(t, s, jsonRequest(http.MethodPost, "/api/form/mode", `{"mode":"edit","question_id":"ghost"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveNewAndExports(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/export/new", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/export/updated", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	importBank(t, s)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/save", `{"fields":{"question_id":"Q1"}}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "REC002", decode[ErrorResponse](t, rec).Code)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/save", `{"fields":{"question_id":""}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, jsonRequest(http.MethodPost, "/api/form/save",
		`{"fields":{"question_id":"Q3","title":"New, with comma","correct":"a, c"}}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, core.SaveInsert, decode[saveResponse](t, rec).Kind)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/export/new", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "new.csv")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "question_id,case_id,"))
	assert.Contains(t, body, `"New, with comma"`)
	assert.Contains(t, body, `"a,c"`)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/export/updated", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "new_update.csv")
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "\n")+1, "header plus four records")
}

func TestStats(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, rec)["questions"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/stats.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestMasterDataEndpoints(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/masterdata", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decode[map[string]any](t, rec)["version"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/keywords/suggest?q=ec&list=CT&add=ECG", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	sug := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"ECG", "echo"}, sug["suggestions"])
	assert.Equal(t, "CT, ECG", sug["keywords"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/templates/t1/insert?field=comment", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<b>Note</b>", decode[map[string]string](t, rec)["text"])

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/templates/t9/insert?field=comment", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REQ002", decode[ErrorResponse](t, rec).Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/api/templates/t1/insert", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Fields, "field")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(t, cfg)
	t.Cleanup(func() { _ = s.Shutdown(t.Context()) })

	for i := 0; i < 2; i++ {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE001", decode[ErrorResponse](t, rec).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig())
	importBank(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "qbank_http_requests_total")
}
