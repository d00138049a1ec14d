package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal-xml/backend/internal/devotp"
)

func TestGetOTP(t *testing.T) {
	store := devotp.NewMemoryStore()
	store.Put(context.Background(), "user@x.com", "0427", time.Now().Add(time.Minute))
	srv := NewServer(store)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.GetOTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("captured code", func(t *testing.T) {
		rec := get("/dev/otp?identifier=user@x.com")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var out map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out["otp"] != "0427" {
			t.Errorf("otp = %q", out["otp"])
		}
	})

	t.Run("missing identifier", func(t *testing.T) {
		if rec := get("/dev/otp"); rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		if rec := get("/dev/otp?identifier=nobody@x.com"); rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
