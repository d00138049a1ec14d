package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	c := NewAccessTokenCodec(testSecret, nil)
	token, err := c.Issue("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sub, err := c.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if sub != "12.345.678/0001-90" {
		t.Errorf("subject = %q", sub)
	}
}

func TestAccessToken_RejectsResetToken(t *testing.T) {
	// A reset authorization signed with the same secret carries the same
	// subject shape; the type tag must keep it out of the login surface.
	reset := NewResetTokenCodec(testSecret, nil)
	token, err := reset.Issue("chal-1", "12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	access := NewAccessTokenCodec(testSecret, nil)
	if _, err := access.Validate(token); err == nil {
		t.Fatal("Validate should reject a reset authorization")
	}
}

func TestAccessToken_RejectsUntypedToken(t *testing.T) {
	// A well-signed token without the type tag at all is equally invalid.
	claims := jwt.RegisteredClaims{
		Subject:   "12.345.678/0001-90",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	c := NewAccessTokenCodec(testSecret, nil)
	if _, err := c.Validate(token); err == nil {
		t.Fatal("Validate should reject a token without a type tag")
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	c := NewAccessTokenCodec(testSecret, nil)
	token, err := c.Issue("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewAccessTokenCodec([]byte("another-secret"), nil)
	if _, err := other.Validate(token); err == nil {
		t.Fatal("Validate should reject a token signed with a different secret")
	}
}

func TestAccessToken_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	c := NewAccessTokenCodec(testSecret, func() time.Time { return now })

	token, err := c.Issue("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = issued.Add(AccessTokenTTL - time.Second)
	if _, err := c.Validate(token); err != nil {
		t.Fatalf("Validate at TTL-1s: %v", err)
	}

	now = issued.Add(AccessTokenTTL + time.Second)
	if _, err := c.Validate(token); err == nil {
		t.Fatal("Validate should reject an expired token")
	}
}
