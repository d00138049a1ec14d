package domain

import (
	"testing"
	"time"
)

func newLive(now time.Time) *Challenge {
	return &Challenge{
		ID:          "chal-1",
		Identifier:  "contador@example.com",
		CodeDigest:  "digest",
		Attempts:    0,
		MaxAttempts: MaxAttempts,
		ExpiresAt:   now.Add(TTL),
		CreatedAt:   now,
	}
}

func TestChallenge_Live(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newLive(now)
	if !c.Live(now) {
		t.Fatal("fresh challenge should be live")
	}
}

func TestChallenge_Terminal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	used := newLive(now)
	used.Used = true
	if !used.Terminal(now) {
		t.Error("used challenge should be terminal")
	}

	superseded := newLive(now)
	superseded.Superseded = true
	if !superseded.Terminal(now) {
		t.Error("superseded challenge should be terminal")
	}

	exhausted := newLive(now)
	exhausted.Attempts = MaxAttempts
	if !exhausted.Terminal(now) {
		t.Error("challenge at attempt ceiling should be terminal")
	}

	expired := newLive(now)
	if !expired.Terminal(now.Add(TTL + time.Second)) {
		t.Error("expired challenge should be terminal")
	}
	if expired.Terminal(now.Add(TTL - time.Second)) {
		t.Error("challenge at TTL-1s should still be live")
	}
}
