package repository

import (
	"context"
	"database/sql"

	"portal-xml/backend/internal/audit/domain"
)

const auditColumns = `id, user_id, identifier, action, ip_address, result, details, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit record repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends the audit record. The record must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, rec *domain.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID,
		nullString(rec.UserID),
		nullString(rec.Identifier),
		rec.Action,
		nullString(rec.IPAddress),
		rec.Result,
		nullString(rec.Details),
		rec.CreatedAt,
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
