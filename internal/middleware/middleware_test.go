package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if got := w.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header %q does not match context value %q", got, captured)
	}
}

func TestRequestID_KeepsUpstreamValue(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "upstream-id" {
		t.Errorf("expected upstream-id, got %q", captured)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/products", "/api/products"},
		{"/api/products/3f2504e0", "/api/products/:id"},
		{"/api/cart", "/api/cart"},
		{"/api/cart/items/3f2504e0", "/api/cart/items/:productId"},
		{"/api/orders", "/api/orders"},
		{"/api/orders/3f2504e0", "/api/orders/:id"},
		{"/api/orders/3f2504e0/status", "/api/orders/:id/status"},
		{"/api/orders/stats", "/api/orders/stats"},
		{"/api/orders/email/a@b.co", "/api/orders/email/:email"},
		{"/api/checkout", "/api/checkout"},
		{"/api/checkout/receipt/3f2504e0", "/api/checkout/receipt/:orderId"},
		{"/healthz", "/healthz"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
