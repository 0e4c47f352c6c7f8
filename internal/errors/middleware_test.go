package errors

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMiddlewareLogsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics/summary?region=West", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lastLine(buf.String())), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "/api/analytics/summary", entry["path"])
	assert.Equal(t, "region=West", entry["query"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestErrorMiddlewareLogsErrorBody(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	body := strings.NewReader(`{"level":"error","api_key":"sekrit"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/logs", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lastLine(buf.String())), &entry))
	assert.Equal(t, "WARN", entry["level"])

	logged, _ := entry["request_body"].(string)
	assert.Contains(t, logged, "[REDACTED]")
	assert.NotContains(t, logged, "sekrit")
}

func TestErrorMiddlewareRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeInternal, problem["type"])
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	h := NewErrorHandler(logger, false)

	handler := RecoveryMiddleware(h)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody(`{"password":"hunter2","message":"hello"}`)
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "hunter2")

	// Non-JSON bodies pass through untouched.
	assert.Equal(t, "plain text", sanitizeRequestBody("plain text"))
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
