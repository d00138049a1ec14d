// Package handler serves readiness and liveness probes.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Pinger reports storage reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server serves /health for Kubernetes, load balancers, and CI.
type Server struct {
	db Pinger
}

// NewServer returns a health server. db may be nil, in which case the DB
// check is skipped.
func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

// RegisterRoutes mounts the health endpoint on r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.Health).Methods(http.MethodGet)
}

// Health returns 200 when all checks pass, 503 when storage is unreachable.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]string{"status": "ok"}
	code := http.StatusOK

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			out["status"] = "degraded"
			out["database"] = "down"
			code = http.StatusServiceUnavailable
		} else {
			out["database"] = "up"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(out)
}
