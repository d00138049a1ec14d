// Package handler exposes first access and login over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"portal-xml/backend/internal/account/service"
	"portal-xml/backend/internal/security"
)

// Authenticator is the auth service contract consumed by this handler.
type Authenticator interface {
	FirstAccess(ctx context.Context, taxID, password, confirmation string) error
	Login(ctx context.Context, taxID, password string) (string, time.Duration, error)
}

// AuthHandler serves the first-access and login endpoints.
type AuthHandler struct {
	svc    Authenticator
	logger zerolog.Logger
}

// NewAuthHandler returns a handler backed by svc.
func NewAuthHandler(svc Authenticator, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the auth endpoints on r.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/primeiro-acesso", h.FirstAccess).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// FirstAccess handles POST /auth/primeiro-acesso. The CNPJ must match the
// registry entry verbatim, mask included.
func (h *AuthHandler) FirstAccess(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CNPJ             string `json:"cnpj"`
		Senha            string `json:"senha"`
		SenhaConfirmacao string `json:"senha_confirmacao"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Corpo da requisição inválido"})
		return
	}

	err := h.svc.FirstAccess(r.Context(), input.CNPJ, input.Senha, input.SenhaConfirmacao)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "Senha cadastrada com sucesso!"})
	case errors.Is(err, service.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "CNPJ não encontrado"})
	case errors.Is(err, service.ErrPasswordAlreadySet):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Usuário já possui senha cadastrada"})
	case errors.Is(err, service.ErrPasswordMismatch):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "As senhas não coincidem"})
	case security.IsPolicyViolation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
	default:
		h.logger.Error().Err(err).Msg("first access failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Erro interno, tente novamente"})
	}
}

// Login handles POST /auth/login. All credential failures collapse to the
// same 401 so the endpoint does not confirm which CNPJs are registered.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CNPJ  string `json:"cnpj"`
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Corpo da requisição inválido"})
		return
	}

	token, _, err := h.svc.Login(r.Context(), input.CNPJ, input.Senha)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Credenciais inválidas"})
	default:
		h.logger.Error().Err(err).Msg("login failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Erro interno, tente novamente"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
