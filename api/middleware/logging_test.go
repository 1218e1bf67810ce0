package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/menuflow-backend/pkg/logger"
)

func TestLoggingWritesAccessLine(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{Output: buf, Format: "json"})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "1.2.3.4:5555"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	want := map[string]any{
		"message":   "request.complete",
		"method":    "POST",
		"path":      "/api/auth/login",
		"status":    float64(http.StatusTeapot),
		"bytes":     float64(5),
		"remote_ip": "1.2.3.4",
	}
	for k, v := range want {
		if line[k] != v {
			t.Fatalf("field %s: expected %v got %v", k, v, line[k])
		}
	}
}

func TestLoggingSkipsHealthProbes(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	handler := Logging(logger.New(logger.Options{Output: buf, Format: "json"}))(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected no access log for probes, got %s", buf.String())
	}
}
