// Package handler implements the dev-only code retrieval endpoint.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"portal-xml/backend/internal/devotp"
)

const devOTPNote = "DEV MODE ONLY"

// Server serves GET /dev/otp. Only registered when dev OTP mode is enabled
// and not production.
type Server struct {
	store devotp.Store
}

// NewServer returns a dev OTP server reading from the given store.
func NewServer(store devotp.Store) *Server {
	return &Server{store: store}
}

// RegisterRoutes mounts the dev endpoint on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/dev/otp", s.GetOTP).Methods(http.MethodGet)
}

// GetOTP returns the captured code for the identifier query parameter.
// Returns 404 if missing or expired.
func (s *Server) GetOTP(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "identifier is required"})
		return
	}
	code, ok := s.store.Get(r.Context(), identifier)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "code not found or expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"otp":  code,
		"note": devOTPNote,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
