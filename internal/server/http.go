// Package server assembles the HTTP router from the feature handlers and the
// middleware chain.
package server

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	accounthandler "portal-xml/backend/internal/account/handler"
	devotphandler "portal-xml/backend/internal/devotp/handler"
	healthhandler "portal-xml/backend/internal/health/handler"
	recoveryhandler "portal-xml/backend/internal/recovery/handler"
	"portal-xml/backend/internal/server/middleware"
)

// Deps holds the handler dependencies for the router. Nil entries skip their
// routes, which keeps router tests independent of the full wiring.
type Deps struct {
	// Recovery serves recuperar-senha, verificar-otp, redefinir-senha.
	Recovery *recoveryhandler.RecoveryHandler
	// Auth serves primeiro-acesso and login.
	Auth *accounthandler.AuthHandler
	// Health serves the readiness probe. If nil, /health is not registered.
	Health *healthhandler.Server
	// Dev serves /dev/otp. Set only when dev OTP mode is enabled and not
	// production.
	Dev *devotphandler.Server
}

// NewRouter returns the assembled router. Route → handler mapping:
//   - /auth/recuperar-senha, /auth/verificar-otp, /auth/redefinir-senha → internal/recovery/handler
//   - /auth/primeiro-acesso, /auth/login → internal/account/handler
//   - /health → internal/health/handler
func NewRouter(deps Deps, logger zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.ClientIP)
	r.Use(middleware.RequestLogger(logger))

	if deps.Recovery != nil {
		deps.Recovery.RegisterRoutes(r)
	}
	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(r)
	}
	if deps.Health != nil {
		deps.Health.RegisterRoutes(r)
	}
	if deps.Dev != nil {
		deps.Dev.RegisterRoutes(r)
	}
	return r
}
