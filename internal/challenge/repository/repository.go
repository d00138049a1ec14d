package repository

import (
	"context"
	"time"

	"portal-xml/backend/internal/challenge/domain"
)

// Repository defines persistence for recovery challenges. Implementations
// must serialize concurrent mutations of a single challenge row: the
// conditional updates below are the atomic read-modify-write boundary that
// keeps the attempt ceiling and the single-use flags race-free.
type Repository interface {
	// Create persists the challenge and, in the same transaction, marks all
	// prior live challenges for the identifier as superseded so at most one
	// code is ever valid per identifier.
	Create(ctx context.Context, c *domain.Challenge) error

	// GetByID returns the challenge for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)

	// LatestLive returns the most recently created live challenge for the
	// identifier at time now, or nil if none exists.
	LatestLive(ctx context.Context, identifier string, now time.Time) (*domain.Challenge, error)

	// IncrementAttempts atomically increments the attempt counter and returns
	// the updated challenge. Two concurrent callers always observe distinct
	// post-increment values.
	IncrementAttempts(ctx context.Context, id string) (*domain.Challenge, error)

	// MarkUsed sets used = true if the challenge is still unused, not
	// superseded, and unexpired at now. Returns false when the transition was
	// not applied, meaning a concurrent verify won or the challenge is terminal.
	MarkUsed(ctx context.Context, id string, now time.Time) (bool, error)

	// MarkConsumed sets consumed = true if the challenge is used and not yet
	// consumed. Returns false on replay. This is the redemption commit point.
	MarkConsumed(ctx context.Context, id string) (bool, error)
}
