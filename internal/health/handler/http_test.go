package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockPinger struct {
	pingErr error
}

func (m *mockPinger) PingContext(context.Context) error {
	return m.pingErr
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name string
		db   Pinger
		want int
	}{
		{"nil pinger skips db check", nil, http.StatusOK},
		{"db up", &mockPinger{}, http.StatusOK},
		{"db down", &mockPinger{pingErr: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewServer(tc.db).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
