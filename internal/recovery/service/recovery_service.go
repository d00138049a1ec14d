// Package service implements the three-stage credential-recovery state
// machine: challenge issuance, verification, and reset-token redemption.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	accountdomain "portal-xml/backend/internal/account/domain"
	"portal-xml/backend/internal/audit"
	auditdomain "portal-xml/backend/internal/audit/domain"
	challengedomain "portal-xml/backend/internal/challenge/domain"
	"portal-xml/backend/internal/notify"
	"portal-xml/backend/internal/security"
	"portal-xml/backend/internal/telemetry"
)

// Sentinel errors; the handler maps them to HTTP statuses.
var (
	// ErrVerifyFailed is the single opaque error for every verification
	// failure: unknown identifier, no live challenge, expired, attempts
	// exhausted, already used, or wrong code. The internal cause is recorded
	// only in the audit trail so the response is never a verification oracle.
	ErrVerifyFailed = errors.New("código inválido ou expirado")

	// ErrResetInvalid covers every reset-authorization failure: bad
	// signature, wrong type, expired, challenge not verified, or replayed.
	ErrResetInvalid = errors.New("autorização de redefinição inválida")
)

// dummyDigest is compared against when no live challenge exists, so that
// path performs the same digest work as the mismatch path.
var dummyDigest = security.HashCode("0000")

// ChallengeRepo is the challenge repository contract the recovery flow needs.
// Conditional updates must be atomic; see the repository package.
type ChallengeRepo interface {
	Create(ctx context.Context, c *challengedomain.Challenge) error
	GetByID(ctx context.Context, id string) (*challengedomain.Challenge, error)
	LatestLive(ctx context.Context, identifier string, now time.Time) (*challengedomain.Challenge, error)
	IncrementAttempts(ctx context.Context, id string) (*challengedomain.Challenge, error)
	MarkUsed(ctx context.Context, id string, now time.Time) (bool, error)
	MarkConsumed(ctx context.Context, id string) (bool, error)
}

// PasswordStore resolves identifiers to accounts and persists new credentials.
type PasswordStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*accountdomain.Contador, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// RecoveryService implements request, verify, and reset.
type RecoveryService struct {
	challenges ChallengeRepo
	store      PasswordStore
	notifier   notify.Notifier
	codec      *security.ResetTokenCodec
	policy     *security.PasswordPolicy
	hasher     *security.Hasher
	rng        security.SecureRandom
	auditor    audit.Sink
	metrics    *telemetry.RecoveryMetrics
	now        func() time.Time
	sleep      func(ctx context.Context) error
}

// NewRecoveryService returns a RecoveryService with the given dependencies.
// now, rng, and metrics may be nil; time.Now, CryptoRand, and no-op metrics
// are used.
func NewRecoveryService(
	challenges ChallengeRepo,
	store PasswordStore,
	notifier notify.Notifier,
	codec *security.ResetTokenCodec,
	policy *security.PasswordPolicy,
	hasher *security.Hasher,
	rng security.SecureRandom,
	auditor audit.Sink,
	metrics *telemetry.RecoveryMetrics,
	now func() time.Time,
) *RecoveryService {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = security.CryptoRand{}
	}
	return &RecoveryService{
		challenges: challenges,
		store:      store,
		notifier:   notifier,
		codec:      codec,
		policy:     policy,
		hasher:     hasher,
		rng:        rng,
		auditor:    auditor,
		metrics:    metrics,
		now:        now,
		sleep:      sleepEnumerationJitter,
	}
}

// Request issues a recovery challenge for the identifier. The externally
// observable work is identical whether or not the identifier resolves to an
// account: a code is generated, digested, and persisted, the notifier is
// invoked (it silently discards sends to unknown recipients), and an audit
// record is written. Only storage failures are returned.
func (s *RecoveryService) Request(ctx context.Context, identifier string) error {
	now := s.now().UTC()

	code, err := security.GenerateCode(s.rng)
	if err != nil {
		return fmt.Errorf("code generation: %w", err)
	}

	c := &challengedomain.Challenge{
		ID:          uuid.New().String(),
		Identifier:  identifier,
		CodeDigest:  security.HashCode(code),
		Attempts:    0,
		MaxAttempts: challengedomain.MaxAttempts,
		ExpiresAt:   now.Add(challengedomain.TTL),
		CreatedAt:   now,
	}
	if err := s.challenges.Create(ctx, c); err != nil {
		return fmt.Errorf("challenge store: %w", err)
	}

	result := auditdomain.ResultIssued
	details := ""
	if err := s.notifier.SendRecoveryCode(ctx, identifier, code); err != nil {
		if errors.Is(err, notify.ErrUnknownRecipient) {
			result = auditdomain.ResultIdentifierUnknown
		} else {
			// Delivery failure for a real account; the challenge stands and the
			// user can re-request.
			log.Error().Err(err).Msg("recovery: code delivery failed")
			details = "delivery failed"
		}
	}

	s.metrics.IncOTPRequest(ctx)
	s.record(ctx, audit.Entry{
		Identifier: identifier,
		Action:     auditdomain.ActionOTPRequest,
		Result:     result,
		Details:    details,
	})

	// Small random delay so response timing does not separate the unknown-
	// identifier path from the issued path. The challenge is already
	// committed, so a context cancelled mid-delay is not an error.
	_ = s.sleep(ctx)
	return nil
}

// Verify consumes one attempt against the latest live challenge for the
// identifier. On success it returns a signed reset authorization. Every
// failure collapses to ErrVerifyFailed.
func (s *RecoveryService) Verify(ctx context.Context, identifier, code string) (string, error) {
	now := s.now().UTC()

	c, err := s.challenges.LatestLive(ctx, identifier, now)
	if err != nil {
		return "", fmt.Errorf("challenge lookup: %w", err)
	}
	if c == nil {
		// Burn the same digest work as the mismatch path before failing.
		security.CodeEqual(code, dummyDigest)
		return "", s.verifyFailure(ctx, identifier, auditdomain.ResultNoLiveChallenge)
	}

	// Single atomic read-modify-write: the increment both spends the attempt
	// and serializes concurrent verifiers on the row.
	updated, err := s.challenges.IncrementAttempts(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("attempt increment: %w", err)
	}
	if updated == nil {
		return "", s.verifyFailure(ctx, identifier, auditdomain.ResultNoLiveChallenge)
	}

	exceeded := updated.Attempts > updated.MaxAttempts
	// The comparison runs even when the ceiling was crossed in this call, so
	// the exhausted path is not distinguishable by timing.
	match := security.CodeEqual(code, updated.CodeDigest)

	if exceeded {
		return "", s.verifyFailure(ctx, identifier, auditdomain.ResultAttemptsExhausted)
	}
	if !match {
		return "", s.verifyFailure(ctx, identifier, auditdomain.ResultCodeMismatch)
	}

	claimed, err := s.challenges.MarkUsed(ctx, c.ID, now)
	if err != nil {
		return "", fmt.Errorf("challenge claim: %w", err)
	}
	if !claimed {
		// A concurrent verify won the used transition, or the challenge
		// expired between the increment and the claim.
		return "", s.verifyFailure(ctx, identifier, auditdomain.ResultAlreadyUsed)
	}

	token, err := s.codec.Issue(c.ID, identifier)
	if err != nil {
		return "", fmt.Errorf("authorization issue: %w", err)
	}

	s.metrics.IncVerifySuccess(ctx)
	s.record(ctx, audit.Entry{
		Identifier: identifier,
		Action:     auditdomain.ActionOTPVerify,
		Result:     auditdomain.ResultSuccess,
	})
	return token, nil
}

// Reset redeems a reset authorization and sets the new password. Token
// failures return ErrResetInvalid; policy violations return the policy error
// unchanged (they carry no exploitable information).
func (s *RecoveryService) Reset(ctx context.Context, token, newPassword string) error {
	challengeID, identifier, err := s.codec.Validate(token)
	if err != nil {
		s.record(ctx, audit.Entry{
			Action: auditdomain.ActionPasswordReset,
			Result: auditdomain.ResultTokenInvalid,
		})
		return ErrResetInvalid
	}

	c, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("challenge lookup: %w", err)
	}
	if c == nil || !c.Used || c.Consumed {
		result := auditdomain.ResultTokenInvalid
		if c != nil && c.Consumed {
			result = auditdomain.ResultTokenReplayed
		}
		s.record(ctx, audit.Entry{
			Identifier: identifier,
			Action:     auditdomain.ActionPasswordReset,
			Result:     result,
		})
		return ErrResetInvalid
	}

	if err := s.policy.Check(newPassword); err != nil {
		s.record(ctx, audit.Entry{
			Identifier: identifier,
			Action:     auditdomain.ActionPasswordReset,
			Result:     auditdomain.ResultPolicyViolation,
		})
		return err
	}

	acct, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if acct == nil {
		s.record(ctx, audit.Entry{
			Identifier: identifier,
			Action:     auditdomain.ActionPasswordReset,
			Result:     auditdomain.ResultIdentifierUnknown,
		})
		return ErrResetInvalid
	}

	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, acct.ID, hash); err != nil {
		return fmt.Errorf("password update: %w", err)
	}

	// Consumption is the commit point: it happens only after the credential
	// is persisted, and a false return means another redemption already
	// committed.
	claimed, err := s.challenges.MarkConsumed(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	if !claimed {
		s.record(ctx, audit.Entry{
			UserID:     acct.ID,
			Identifier: identifier,
			Action:     auditdomain.ActionPasswordReset,
			Result:     auditdomain.ResultTokenReplayed,
		})
		return ErrResetInvalid
	}

	if err := s.notifier.SendResetConfirmation(ctx, identifier); err != nil {
		log.Error().Err(err).Msg("recovery: confirmation delivery failed")
	}

	s.metrics.IncPasswordReset(ctx)
	s.record(ctx, audit.Entry{
		UserID:     acct.ID,
		Identifier: identifier,
		Action:     auditdomain.ActionPasswordReset,
		Result:     auditdomain.ResultSuccess,
	})
	return nil
}

func (s *RecoveryService) verifyFailure(ctx context.Context, identifier, result string) error {
	s.metrics.IncVerifyFailure(ctx)
	s.record(ctx, audit.Entry{
		Identifier: identifier,
		Action:     auditdomain.ActionOTPVerify,
		Result:     result,
	})
	return ErrVerifyFailed
}

func (s *RecoveryService) record(ctx context.Context, e audit.Entry) {
	if s.auditor != nil {
		s.auditor.Record(ctx, e)
	}
}

// sleepEnumerationJitter sleeps 20–40ms drawn from crypto/rand.
func sleepEnumerationJitter(ctx context.Context) error {
	const minMs, maxMs = int64(20), int64(40)
	n, err := rand.Int(rand.Reader, big.NewInt(maxMs-minMs+1))
	if err != nil {
		return err
	}
	timer := time.NewTimer(time.Duration(minMs+n.Int64()) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
