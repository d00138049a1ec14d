// Package notify delivers recovery codes and reset confirmations to the
// contact address behind an identifier.
package notify

import (
	"context"
	"errors"
)

// ErrUnknownRecipient is returned when the identifier does not resolve to an
// account. Callers must treat the send as silently discarded and must not
// expose the distinction to the requester.
var ErrUnknownRecipient = errors.New("identifier does not resolve to an account")

// Notifier resolves an identifier to a contact address and delivers messages.
// Account resolution lives here, not in the recovery flow, so issuing a
// challenge never needs to know whether the account exists.
//
// Implementations must keep SendRecoveryCode's latency independent of
// whether the recipient exists: resolution may block, transport must not.
type Notifier interface {
	// SendRecoveryCode delivers the one-time code for the identifier.
	SendRecoveryCode(ctx context.Context, identifier, code string) error
	// SendResetConfirmation informs the account that its password was changed.
	SendResetConfirmation(ctx context.Context, identifier string) error
}
