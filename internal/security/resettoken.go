package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenType is the type tag carried by reset authorizations. Validation
// rejects any token without it, so access tokens can never be replayed here.
const ResetTokenType = "password-reset"

// ResetTokenTTL is the lifetime of a reset authorization.
const ResetTokenTTL = 10 * time.Minute

// ErrInvalidResetToken is returned for any reset token that fails signature,
// type, or expiry checks. Callers must not distinguish the causes externally.
var ErrInvalidResetToken = errors.New("invalid reset token")

// ResetClaims holds JWT claims for the reset authorization.
type ResetClaims struct {
	jwt.RegisteredClaims
	Type        string `json:"typ"`
	ChallengeID string `json:"challenge_id"`
	Identifier  string `json:"identifier"`
}

// ResetTokenCodec issues and validates signed reset authorizations (HS256).
// The secret is injected, never ambient, so the codec is testable and the key
// can be rotated by constructing a new codec.
type ResetTokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewResetTokenCodec returns a codec signing with the given secret.
// now may be nil, in which case time.Now is used.
func NewResetTokenCodec(secret []byte, now func() time.Time) *ResetTokenCodec {
	if now == nil {
		now = time.Now
	}
	return &ResetTokenCodec{secret: secret, now: now}
}

// Issue signs a reset authorization bound to the given challenge and identifier.
func (c *ResetTokenCodec) Issue(challengeID, identifier string) (string, error) {
	now := c.now().UTC()
	claims := ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
		Type:        ResetTokenType,
		ChallengeID: challengeID,
	}
	claims.Identifier = identifier
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Validate checks signature, type tag, and expiry, in that order, and returns
// the bound challenge ID and identifier. The challenge's used/consumed state
// is storage-side and is checked by the caller against the repository; a
// well-signed unexpired token is not sufficient on its own.
func (c *ResetTokenCodec) Validate(token string) (challengeID, identifier string, err error) {
	parsed, err := jwt.ParseWithClaims(token, &ResetClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidResetToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", "", ErrInvalidResetToken
	}
	claims, ok := parsed.Claims.(*ResetClaims)
	if !ok || !parsed.Valid {
		return "", "", ErrInvalidResetToken
	}
	if claims.Type != ResetTokenType {
		return "", "", ErrInvalidResetToken
	}
	if claims.ChallengeID == "" || claims.Identifier == "" {
		return "", "", ErrInvalidResetToken
	}
	return claims.ChallengeID, claims.Identifier, nil
}
