package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"portal-xml/backend/internal/challenge/domain"
)

const challengeColumns = `id, identifier, code_digest, attempts, max_attempts, expires_at, used, consumed, superseded, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a challenge repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create supersedes prior live challenges for the identifier and inserts the
// new one, in a single transaction.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Challenge) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		UPDATE otps
		SET superseded = TRUE
		WHERE identifier = $1
		  AND NOT used AND NOT superseded
		  AND attempts < max_attempts
		  AND expires_at > $2`,
		c.Identifier, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO otps (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Identifier, c.CodeDigest, c.Attempts, c.MaxAttempts,
		c.ExpiresAt, c.Used, c.Consumed, c.Superseded, c.CreatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns the challenge for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+challengeColumns+` FROM otps WHERE id = $1`, id)
	return scanChallenge(row)
}

// LatestLive returns the newest live challenge for the identifier, or nil.
func (r *PostgresRepository) LatestLive(ctx context.Context, identifier string, now time.Time) (*domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+challengeColumns+`
		FROM otps
		WHERE identifier = $1
		  AND NOT used AND NOT superseded
		  AND attempts < max_attempts
		  AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1`,
		identifier, now,
	)
	return scanChallenge(row)
}

// IncrementAttempts increments the counter in a single UPDATE … RETURNING, so
// concurrent verifiers serialize on the row and each sees a distinct value.
func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id string) (*domain.Challenge, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE otps
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING `+challengeColumns, id)
	return scanChallenge(row)
}

// MarkUsed claims the challenge for exactly one successful verification.
func (r *PostgresRepository) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE otps
		SET used = TRUE
		WHERE id = $1 AND NOT used AND NOT superseded AND expires_at > $2`,
		id, now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkConsumed commits the redemption; false means the token was replayed.
func (r *PostgresRepository) MarkConsumed(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE otps
		SET consumed = TRUE
		WHERE id = $1 AND used AND NOT consumed`,
		id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanChallenge(row *sql.Row) (*domain.Challenge, error) {
	var c domain.Challenge
	err := row.Scan(
		&c.ID, &c.Identifier, &c.CodeDigest, &c.Attempts, &c.MaxAttempts,
		&c.ExpiresAt, &c.Used, &c.Consumed, &c.Superseded, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
