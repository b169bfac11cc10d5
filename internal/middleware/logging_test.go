package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

// TestLogging_CredentialsNotLogged ensures request bodies never reach the access log.
func TestLogging_CredentialsNotLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":"alice@example.com","password":"hunter2-very-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, secret := range []string{"hunter2-very-secret", "alice@example.com"} {
		if strings.Contains(logOutput, secret) {
			t.Errorf("log output contains %q", secret)
		}
	}
}

// TestLogging_BasicFields verifies that expected non-sensitive fields are logged.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")
	req.Header.Set(RequestIDHeader, "req-123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	logOutput := buf.String()
	expectedFields := []string{
		`"msg":"http_request"`,
		`"request_id":"req-123"`,
		`"method":"POST"`,
		`"path":"/api/register"`,
		`"status_code":201`,
		`"bytes":7`,
		`"user_agent":"TestBrowser/2.0"`,
	}
	for _, field := range expectedFields {
		if !strings.Contains(logOutput, field) {
			t.Errorf("expected log field %s not found in output: %s", field, logOutput)
		}
	}
}

func TestLogging_RoutePattern(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if !strings.Contains(buf.String(), `"route":"/api/users"`) {
		t.Errorf("route pattern missing from log: %s", buf.String())
	}
}

// TestLogging_ErrorStatusLevel verifies error statuses are logged at higher levels.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"created", http.StatusCreated, "INFO"},
		{"bad request", http.StatusBadRequest, "WARN"},
		{"unauthorized", http.StatusUnauthorized, "WARN"},
		{"not found", http.StatusNotFound, "WARN"},
		{"internal error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

			if !strings.Contains(buf.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("expected level %s for status %d, got: %s", tt.wantLevel, tt.statusCode, buf.String())
			}
		})
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	t.Parallel()

	wrapped := wrapResponseWriter(httptest.NewRecorder())
	_, _ = wrapped.Write([]byte("hello"))

	if wrapped.status != http.StatusOK {
		t.Errorf("default status = %d, want %d", wrapped.status, http.StatusOK)
	}
	if wrapped.bytes != 5 {
		t.Errorf("bytes = %d, want 5", wrapped.bytes)
	}
}

// TestResponseWriter_DoubleWriteHeader ensures only first WriteHeader takes effect.
func TestResponseWriter_DoubleWriteHeader(t *testing.T) {
	t.Parallel()

	wrapped := wrapResponseWriter(httptest.NewRecorder())
	wrapped.WriteHeader(http.StatusCreated)
	wrapped.WriteHeader(http.StatusInternalServerError)

	if wrapped.status != http.StatusCreated {
		t.Errorf("status after double write = %d, want %d", wrapped.status, http.StatusCreated)
	}
}
