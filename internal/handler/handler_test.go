package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/credvault/credvault/internal/handler/dto"
)

func TestHandler_Hello(t *testing.T) {
	t.Parallel()

	h := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["message"] != "credvault credential service" {
		t.Errorf("unexpected message: %s", response["message"])
	}
	if response["version"] != Version {
		t.Errorf("unexpected version: %s", response["version"])
	}
}

func TestHandler_ErrorResponses(t *testing.T) {
	t.Parallel()

	h := New()

	tests := []struct {
		name        string
		serve       http.HandlerFunc
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", h.NotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
		{"method not allowed", h.MethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.serve(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Code != tt.wantCode || response.Error != tt.wantMessage {
				t.Errorf("response = %+v, want code %s message %q", response, tt.wantCode, tt.wantMessage)
			}
		})
	}
}
