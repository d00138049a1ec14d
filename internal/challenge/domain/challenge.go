// Package domain defines the recovery challenge record (stored in the otps table).
package domain

import "time"

// MaxAttempts is the attempt ceiling fixed at challenge creation.
const MaxAttempts = 5

// TTL is the challenge lifetime from creation.
const TTL = 15 * time.Minute

// Challenge is one issued recovery code's server-side record. The plaintext
// code is never stored; only its digest is.
type Challenge struct {
	ID          string
	Identifier  string // email or CNPJ, opaque to this record
	CodeDigest  string // sha256 hex
	Attempts    int
	MaxAttempts int
	ExpiresAt   time.Time
	Used        bool // set on successful verification; monotonic false→true
	Consumed    bool // set on reset redemption; monotonic false→true
	Superseded  bool // set when a newer challenge is issued for the identifier
	CreatedAt   time.Time
}

// Terminal reports whether the challenge can no longer be verified.
// A terminal challenge stays terminal: used, superseded, exhausted attempts,
// and expiry are all irreversible.
func (c *Challenge) Terminal(now time.Time) bool {
	return c.Used || c.Superseded || c.Attempts >= c.MaxAttempts || now.After(c.ExpiresAt)
}

// Live reports whether a verify attempt may still be made against the challenge.
func (c *Challenge) Live(now time.Time) bool {
	return !c.Terminal(now)
}
