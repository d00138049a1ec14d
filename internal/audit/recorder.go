// Package audit writes append-only operation records for the auth and
// recovery flows.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"portal-xml/backend/internal/audit/domain"
	auditrepo "portal-xml/backend/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Entry is the caller-supplied part of an audit record.
type Entry struct {
	UserID     string
	Identifier string
	Action     string
	Result     string
	Details    string
}

// Sink receives one audit entry per operation. Record is best-effort:
// failures are logged and do not affect the caller.
type Sink interface {
	Record(ctx context.Context, e Entry)
}

// Recorder implements Sink using the audit repository, an optional IP
// extractor, and an optional fan-out emitter (e.g. Kafka).
type Recorder struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	emitter     Emitter
}

// NewRecorder returns a Sink that persists to repo and uses ipExtractor for
// client IP. ipExtractor and emitter may be nil.
func NewRecorder(repo auditrepo.Repository, ipExtractor IPExtractor, emitter Emitter) *Recorder {
	return &Recorder{repo: repo, ipExtractor: ipExtractor, emitter: emitter}
}

// Record writes one audit record. Best-effort: errors are logged, never returned.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.repo == nil {
		return
	}
	ip := ""
	if r.ipExtractor != nil {
		ip = r.ipExtractor(ctx)
	}
	rec := &domain.Record{
		ID:         uuid.New().String(),
		UserID:     e.UserID,
		Identifier: e.Identifier,
		Action:     e.Action,
		IPAddress:  ip,
		Result:     e.Result,
		Details:    e.Details,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.repo.Create(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("action", e.Action).
			Str("result", e.Result).
			Msg("audit: failed to persist record")
	}
	EmitAsync(r.emitter, rec)
}
