package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestResponseWriterDefaultsTo200OnWrite(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode: got %d, want %d", rw.statusCode, http.StatusOK)
	}
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode: got %d, want %d", rw.statusCode, http.StatusNotFound)
	}
}
