package repository

import (
	"context"

	"portal-xml/backend/internal/account/domain"
)

// Repository defines persistence for accountant accounts. It is also the
// password store for the recovery flow (UpdatePasswordHash).
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Contador, error)
	GetByTaxID(ctx context.Context, taxID string) (*domain.Contador, error)
	// GetByIdentifier matches either the account email or the masked CNPJ.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Contador, error)
	Create(ctx context.Context, c *domain.Contador) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
