package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// TestIdentity represents a verified caller for testing HTTP handlers.
type TestIdentity struct {
	Email string
	UID   string
}

// Identity converts to the auth package's identity type.
func (ti TestIdentity) Identity() *auth.Identity {
	return &auth.Identity{Email: ti.Email, UID: ti.UID}
}

// WithIdentity adds an identity to the request context for testing
// authenticated handlers. This bypasses the token middleware and injects
// the identity directly.
func WithIdentity(r *http.Request, ident TestIdentity) *http.Request {
	return auth.WithTestIdentity(r, ident.Identity())
}

// WithURLParam adds a chi route parameter to the request context, for
// calling handlers directly without going through the router.
func WithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with an identity in context.
func NewAuthenticatedRequest(method, target string, ident TestIdentity) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithIdentity(req, ident)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// DecodeBody unmarshals the JSON response body into a map.
func (r *ResponseRecorder) DecodeBody(t *testing.T) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", r.Body.String(), err)
	}
	return out
}
