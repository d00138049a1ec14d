package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"portal-xml/backend/internal/audit/domain"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the HTTP server stops before
// closing the emitter, so in-flight async emits have time to complete.
// Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// Emitter publishes audit records to an external stream (e.g. Kafka for SIEM
// ingestion). Emit is best-effort; the database row is the source of truth.
type Emitter interface {
	Emit(ctx context.Context, rec *domain.Record) error
	Close() error
}

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not
// blocked. emitter and rec may be nil; EmitAsync then returns immediately.
// The goroutine uses context.Background() with emitTimeout so request
// cancellation does not abort an in-flight emit.
func EmitAsync(emitter Emitter, rec *domain.Record) {
	if emitter == nil || rec == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, rec); err != nil {
			log.Error().Err(err).Str("action", rec.Action).Msg("audit: async emit failed")
		}
	}()
}
