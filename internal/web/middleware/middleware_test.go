package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"no trusted proxies ignores headers", nil, "10.0.0.1:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.0.0.1:5000"},
		{"trusted proxy real ip", []string{"10.0.0.0/8"}, "10.0.0.1:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
		{"trusted proxy forwarded for", []string{"10.0.0.1"}, "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, "5.6.7.8"},
		{"untrusted proxy", []string{"192.168.0.0/16"}, "10.0.0.1:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "10.0.0.1:5000"},
		{"invalid header kept out", []string{"10.0.0.0/8"}, "10.0.0.1:5000", map[string]string{"X-Real-IP": "nope"}, "10.0.0.1:5000"},
		{"invalid cidr skipped", []string{"bogus", "10.0.0.0/8"}, "10.0.0.1:5000", map[string]string{"X-Real-IP": "1.2.3.4"}, "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusLocked)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/form/save", nil))

	assert.Equal(t, http.StatusLocked, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=423")
	assert.Contains(t, out, "path=/api/form/save")
}
