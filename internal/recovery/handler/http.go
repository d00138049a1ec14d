// Package handler exposes the password recovery flow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"portal-xml/backend/internal/recovery/service"
	"portal-xml/backend/internal/security"
)

// requestAcceptedMessage is returned by recuperar-senha regardless of whether
// the identifier resolves to an account.
const requestAcceptedMessage = "Se o identificador estiver cadastrado, um código de recuperação foi enviado."

// Recoverer is the recovery service contract consumed by this handler.
type Recoverer interface {
	Request(ctx context.Context, identifier string) error
	Verify(ctx context.Context, identifier, code string) (string, error)
	Reset(ctx context.Context, token, newPassword string) error
}

// RecoveryHandler serves the three recovery endpoints.
type RecoveryHandler struct {
	svc    Recoverer
	logger zerolog.Logger
}

// NewRecoveryHandler returns a handler backed by svc.
func NewRecoveryHandler(svc Recoverer, logger zerolog.Logger) *RecoveryHandler {
	return &RecoveryHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the recovery endpoints on r.
func (h *RecoveryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/recuperar-senha", h.RequestCode).Methods(http.MethodPost)
	r.HandleFunc("/auth/verificar-otp", h.VerifyCode).Methods(http.MethodPost)
	r.HandleFunc("/auth/redefinir-senha", h.ResetPassword).Methods(http.MethodPost)
}

// RequestCode handles POST /auth/recuperar-senha. The response is identical
// for known and unknown identifiers.
func (h *RecoveryHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Identifier string `json:"identifier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Identifier) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Corpo da requisição inválido",
		})
		return
	}

	if err := h.svc.Request(r.Context(), strings.TrimSpace(input.Identifier)); err != nil {
		// Storage failure. The neutral message would leak nothing, but a 500
		// tells the client to retry.
		h.logger.Error().Err(err).Msg("recovery request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Erro interno, tente novamente",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": requestAcceptedMessage})
}

// VerifyCode handles POST /auth/verificar-otp. All verification failures
// produce the same 401 body.
func (h *RecoveryHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Identifier string `json:"identifier"`
		Code       string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Corpo da requisição inválido",
		})
		return
	}

	token, err := h.svc.Verify(r.Context(), strings.TrimSpace(input.Identifier), input.Code)
	if err != nil {
		if errors.Is(err, service.ErrVerifyFailed) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		h.logger.Error().Err(err).Msg("code verification failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Erro interno, tente novamente",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":              "ok",
		"reset_authorization": token,
	})
}

// ResetPassword handles POST /auth/redefinir-senha. The reset authorization
// comes as a bearer token; policy violations are reported with their reason,
// authorization failures are opaque.
func (h *RecoveryHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"message": service.ErrResetInvalid.Error(),
		})
		return
	}

	var input struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Corpo da requisição inválido",
		})
		return
	}

	err := h.svc.Reset(r.Context(), token, input.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Senha redefinida com sucesso!",
		})
	case security.IsPolicyViolation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, service.ErrResetInvalid):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
	default:
		h.logger.Error().Err(err).Msg("password reset failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Erro interno, tente novamente",
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
