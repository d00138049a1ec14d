// Package domain defines the append-only audit record (audit_logs table).
package domain

import "time"

// Actions recorded by this service.
const (
	ActionOTPRequest    = "otp_request"
	ActionOTPVerify     = "otp_verify"
	ActionPasswordReset = "password_reset"
	ActionFirstAccess   = "first_access"
	ActionLogin         = "login"
)

// Results. The distinction between them is internal: the operation responses
// never expose which one was recorded.
const (
	ResultIssued            = "issued"
	ResultIdentifierUnknown = "identifier_unknown"
	ResultSuccess           = "success"
	ResultError             = "error"
	ResultNoLiveChallenge   = "no_live_challenge"
	ResultExpired           = "expired"
	ResultAttemptsExhausted = "attempts_exhausted"
	ResultCodeMismatch      = "code_mismatch"
	ResultAlreadyUsed       = "already_used"
	ResultTokenInvalid      = "token_invalid"
	ResultTokenReplayed     = "token_replayed"
	ResultPolicyViolation   = "policy_violation"
)

// Record is one immutable audit entry. Records are created by the auth and
// recovery flows and never updated or deleted here.
type Record struct {
	ID         string
	UserID     string // account id when resolved; empty otherwise
	Identifier string // email or CNPJ as submitted
	Action     string
	IPAddress  string
	Result     string
	Details    string
	CreatedAt  time.Time
}
