// Package service implements first-access password creation and login for
// accountant accounts.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountdomain "portal-xml/backend/internal/account/domain"
	"portal-xml/backend/internal/audit"
	auditdomain "portal-xml/backend/internal/audit/domain"
	"portal-xml/backend/internal/security"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	ErrAccountNotFound    = errors.New("cnpj not found")
	ErrPasswordAlreadySet = errors.New("account already has a password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountRepo is the minimal account repository needed by the auth service.
type AccountRepo interface {
	GetByTaxID(ctx context.Context, taxID string) (*accountdomain.Contador, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// AuthService implements first access (initial password creation) and login.
type AuthService struct {
	accounts AccountRepo
	hasher   *security.Hasher
	policy   *security.PasswordPolicy
	tokens   *security.AccessTokenCodec
	auditor  audit.Sink
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	accounts AccountRepo,
	hasher *security.Hasher,
	policy *security.PasswordPolicy,
	tokens *security.AccessTokenCodec,
	auditor audit.Sink,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		policy:   policy,
		tokens:   tokens,
		auditor:  auditor,
	}
}

// FirstAccess sets the initial password for an account that has none yet.
// The CNPJ is matched verbatim, mask included, as stored in the registry.
func (s *AuthService) FirstAccess(ctx context.Context, taxID, password, confirmation string) error {
	taxID = strings.TrimSpace(taxID)
	acct, err := s.accounts.GetByTaxID(ctx, taxID)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if acct == nil {
		s.record(ctx, audit.Entry{
			Identifier: taxID,
			Action:     auditdomain.ActionFirstAccess,
			Result:     auditdomain.ResultIdentifierUnknown,
		})
		return ErrAccountNotFound
	}
	if acct.HasPassword() {
		s.record(ctx, audit.Entry{
			UserID:     acct.ID,
			Identifier: taxID,
			Action:     auditdomain.ActionFirstAccess,
			Result:     auditdomain.ResultError,
			Details:    "password already set",
		})
		return ErrPasswordAlreadySet
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	if err := s.policy.Check(password); err != nil {
		return err
	}
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
		return fmt.Errorf("password update: %w", err)
	}
	s.record(ctx, audit.Entry{
		UserID:     acct.ID,
		Identifier: taxID,
		Action:     auditdomain.ActionFirstAccess,
		Result:     auditdomain.ResultSuccess,
	})
	return nil
}

// Login authenticates with CNPJ and password and returns a bearer access token.
func (s *AuthService) Login(ctx context.Context, taxID, password string) (string, time.Duration, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" || password == "" {
		return "", 0, ErrInvalidCredentials
	}
	acct, err := s.accounts.GetByTaxID(ctx, taxID)
	if err != nil {
		return "", 0, fmt.Errorf("account lookup: %w", err)
	}
	if acct == nil || !acct.HasPassword() {
		s.record(ctx, audit.Entry{
			Identifier: taxID,
			Action:     auditdomain.ActionLogin,
			Result:     auditdomain.ResultIdentifierUnknown,
		})
		return "", 0, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(acct.PasswordHash, []byte(password)); err != nil {
		s.record(ctx, audit.Entry{
			UserID:     acct.ID,
			Identifier: taxID,
			Action:     auditdomain.ActionLogin,
			Result:     auditdomain.ResultError,
			Details:    "wrong password",
		})
		return "", 0, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(acct.TaxID)
	if err != nil {
		return "", 0, err
	}
	s.record(ctx, audit.Entry{
		UserID:     acct.ID,
		Identifier: taxID,
		Action:     auditdomain.ActionLogin,
		Result:     auditdomain.ResultSuccess,
	})
	return token, security.AccessTokenTTL, nil
}

func (s *AuthService) record(ctx context.Context, e audit.Entry) {
	if s.auditor != nil {
		s.auditor.Record(ctx, e)
	}
}
