package security

import (
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret-key")

func TestResetToken_RoundTrip(t *testing.T) {
	c := NewResetTokenCodec(testSecret, nil)
	token, err := c.Issue("chal-1", "contador@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	challengeID, identifier, err := c.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if challengeID != "chal-1" {
		t.Errorf("challengeID = %q, want chal-1", challengeID)
	}
	if identifier != "contador@example.com" {
		t.Errorf("identifier = %q", identifier)
	}
}

func TestResetToken_WrongSecret(t *testing.T) {
	c := NewResetTokenCodec(testSecret, nil)
	token, err := c.Issue("chal-1", "id")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := NewResetTokenCodec([]byte("another-secret"), nil)
	if _, _, err := other.Validate(token); err == nil {
		t.Fatal("Validate should reject a token signed with a different secret")
	}
}

func TestResetToken_Tampered(t *testing.T) {
	c := NewResetTokenCodec(testSecret, nil)
	token, err := c.Issue("chal-1", "id")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, _, err := c.Validate(tampered); err == nil {
		t.Fatal("Validate should reject a tampered payload")
	}
}

func TestResetToken_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	c := NewResetTokenCodec(testSecret, func() time.Time { return now })

	token, err := c.Issue("chal-1", "id")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = issued.Add(ResetTokenTTL - time.Second)
	if _, _, err := c.Validate(token); err != nil {
		t.Fatalf("Validate at TTL-1s: %v", err)
	}

	now = issued.Add(ResetTokenTTL + time.Second)
	if _, _, err := c.Validate(token); err == nil {
		t.Fatal("Validate should reject an expired token")
	}
}

func TestResetToken_RejectsAccessToken(t *testing.T) {
	// An access token signed with the same secret carries a different type
	// tag and no challenge binding; it must never pass reset validation.
	access := NewAccessTokenCodec(testSecret, nil)
	token, err := access.Issue("12.345.678/0001-90")
	if err != nil {
		t.Fatalf("Issue access: %v", err)
	}
	c := NewResetTokenCodec(testSecret, nil)
	if _, _, err := c.Validate(token); err == nil {
		t.Fatal("Validate should reject a token without the password-reset type tag")
	}
}
