package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomrelease/pkg/logger"
)

func TestContentTypeValidation(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	handler := ContentTypeValidation(logger.Discard())(next)

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusAccepted},
		{"json post with charset", http.MethodPost, "application/json; charset=utf-8", http.StatusAccepted},
		{"plain text post", http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
		{"missing content type post", http.MethodPost, "", http.StatusUnsupportedMediaType},
		{"get without content type", http.MethodGet, "", http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", strings.NewReader(`{"type":"call.ended"}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
