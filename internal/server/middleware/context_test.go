package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPRoundTrip(t *testing.T) {
	ctx := WithClientIP(context.Background(), "203.0.113.7")
	if got := GetClientIP(ctx); got != "203.0.113.7" {
		t.Errorf("GetClientIP = %q", got)
	}
	if got := GetClientIP(context.Background()); got != "" {
		t.Errorf("GetClientIP on empty context = %q, want empty", got)
	}
}

func TestClientIPFromRequest(t *testing.T) {
	cases := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded for", "203.0.113.7", "", "10.0.0.1:9999", "203.0.113.7"},
		{"forwarded for list keeps first", "203.0.113.7, 10.0.0.2", "", "10.0.0.1:9999", "203.0.113.7"},
		{"real ip", "", "203.0.113.8", "10.0.0.1:9999", "203.0.113.8"},
		{"remote addr", "", "", "10.0.0.1:9999", "10.0.0.1"},
		{"remote addr without port", "", "", "10.0.0.1", "10.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIPFromRequest(r); got != tc.want {
				t.Errorf("ClientIPFromRequest = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientIPMiddleware(t *testing.T) {
	var seen string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "203.0.113.7" {
		t.Errorf("handler saw client ip %q", seen)
	}
}
