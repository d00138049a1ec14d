package repository

import (
	"context"

	"portal-xml/backend/internal/audit/domain"
)

// Repository defines persistence for audit records. Append-only: there is no
// update or delete, and reads happen out of band.
type Repository interface {
	Create(ctx context.Context, r *domain.Record) error
}
