package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/relaykit/relay/pkg/contextkeys"
)

func TestRequestID_HonorsInboundHeader(t *testing.T) {
	var fromCtx string
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = contextkeys.GetRequestID(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id-123")
	rec := httptest.NewRecorder()
	RequestID()(terminal).ServeHTTP(rec, req)

	if fromCtx != "upstream-id-123" {
		t.Errorf("Context request id = %q, want inbound header value", fromCtx)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "upstream-id-123" {
		t.Errorf("Echoed header = %q, want inbound header value", got)
	}
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	var fromCtx string
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = contextkeys.GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID()(terminal).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(fromCtx); err != nil {
		t.Errorf("Generated request id %q is not a UUID: %v", fromCtx, err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != fromCtx {
		t.Errorf("Echoed header %q does not match context id %q", got, fromCtx)
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RequestID()(terminal)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		seen[rec.Header().Get("X-Request-ID")] = true
	}

	if len(seen) != 10 {
		t.Errorf("Expected 10 distinct generated ids, got %d", len(seen))
	}
}
