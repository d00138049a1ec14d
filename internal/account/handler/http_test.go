package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"portal-xml/backend/internal/account/service"
	"portal-xml/backend/internal/security"
)

type stubAuth struct {
	firstAccessErr error
	loginToken     string
	loginErr       error
}

func (s *stubAuth) FirstAccess(ctx context.Context, taxID, password, confirmation string) error {
	return s.firstAccessErr
}

func (s *stubAuth) Login(ctx context.Context, taxID, password string) (string, time.Duration, error) {
	if s.loginErr != nil {
		return "", 0, s.loginErr
	}
	return s.loginToken, 60 * time.Minute, nil
}

func newRouter(svc Authenticator) *mux.Router {
	r := mux.NewRouter()
	NewAuthHandler(svc, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestFirstAccessHandler(t *testing.T) {
	body := map[string]string{
		"cnpj":              "12.345.678/0001-90",
		"senha":             "SenhaForte1",
		"senha_confirmacao": "SenhaForte1",
	}

	cases := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"unknown cnpj", service.ErrAccountNotFound, http.StatusNotFound},
		{"password already set", service.ErrPasswordAlreadySet, http.StatusBadRequest},
		{"confirmation mismatch", service.ErrPasswordMismatch, http.StatusBadRequest},
		{"policy violation", security.ErrPasswordNoDigit, http.StatusBadRequest},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(&stubAuth{firstAccessErr: tc.svcErr})
			rec := postJSON(t, r, "/auth/primeiro-acesso", body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	body := map[string]string{"cnpj": "12.345.678/0001-90", "senha": "SenhaForte1"}

	t.Run("success returns bearer token", func(t *testing.T) {
		r := newRouter(&stubAuth{loginToken: "signed-token"})
		rec := postJSON(t, r, "/auth/login", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var out map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out["access_token"] != "signed-token" || out["token_type"] != "bearer" {
			t.Errorf("body = %v", out)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		r := newRouter(&stubAuth{loginErr: service.ErrInvalidCredentials})
		rec := postJSON(t, r, "/auth/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		r := newRouter(&stubAuth{loginErr: errors.New("db down")})
		rec := postJSON(t, r, "/auth/login", body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}
