package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenType is the type tag carried by login access tokens. Validation
// rejects any token without it, so reset authorizations can never be
// replayed as bearer credentials even though both families share the secret.
const AccessTokenType = "access"

// AccessTokenTTL is the lifetime of a login access token.
const AccessTokenTTL = 60 * time.Minute

// ErrInvalidAccessToken is returned when an access token is malformed, badly
// signed, of the wrong type, or expired.
var ErrInvalidAccessToken = errors.New("invalid access token")

// AccessClaims holds JWT claims for the login access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

// AccessTokenCodec issues and validates login access tokens (HS256, sub = CNPJ).
type AccessTokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewAccessTokenCodec returns a codec signing with the given secret.
// now may be nil, in which case time.Now is used.
func NewAccessTokenCodec(secret []byte, now func() time.Time) *AccessTokenCodec {
	if now == nil {
		now = time.Now
	}
	return &AccessTokenCodec{secret: secret, now: now}
}

// Issue signs an access token for the given account tax ID.
func (c *AccessTokenCodec) Issue(taxID string) (string, error) {
	now := c.now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   taxID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		Type: AccessTokenType,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Validate checks signature, type tag, and expiry and returns the subject
// tax ID. Tokens of any other type, reset authorizations included, fail.
func (c *AccessTokenCodec) Validate(token string) (taxID string, err error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", ErrInvalidAccessToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidAccessToken
	}
	if claims.Type != AccessTokenType {
		return "", ErrInvalidAccessToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidAccessToken
	}
	return claims.Subject, nil
}
