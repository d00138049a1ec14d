package repository

import (
	"context"
	"database/sql"
	"errors"

	"portal-xml/backend/internal/account/domain"
)

const contadorColumns = `id, nome, cnpj, email, telefone, senha_hash, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Contador, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+contadorColumns+` FROM contadores WHERE id = $1`, id)
	return scanContador(row)
}

// GetByTaxID returns the account with the given masked CNPJ, or nil.
func (r *PostgresRepository) GetByTaxID(ctx context.Context, taxID string) (*domain.Contador, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+contadorColumns+` FROM contadores WHERE cnpj = $1`, taxID)
	return scanContador(row)
}

// GetByIdentifier matches either the account email or the masked CNPJ.
func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Contador, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+contadorColumns+` FROM contadores WHERE email = $1 OR cnpj = $1`, identifier)
	return scanContador(row)
}

// Create persists the account. The account must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Contador) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contadores (`+contadorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Nome, c.TaxID, c.Email,
		nullString(c.Telefone), nullString(c.PasswordHash), c.CreatedAt,
	)
	return err
}

// UpdatePasswordHash sets the account's password hash.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contadores SET senha_hash = $2 WHERE id = $1`, id, hash)
	return err
}

func scanContador(row *sql.Row) (*domain.Contador, error) {
	var c domain.Contador
	var telefone, senhaHash sql.NullString
	err := row.Scan(&c.ID, &c.Nome, &c.TaxID, &c.Email, &telefone, &senhaHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Telefone = telefone.String
	c.PasswordHash = senhaHash.String
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
