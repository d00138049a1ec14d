package devotp

import (
	"context"
	"time"

	challengedomain "portal-xml/backend/internal/challenge/domain"
	"portal-xml/backend/internal/notify"
)

// CaptureNotifier wraps a Notifier and mirrors every delivered recovery code
// into the dev store. Delivery behavior, including ErrUnknownRecipient, is
// unchanged.
type CaptureNotifier struct {
	next  notify.Notifier
	store Store
	now   func() time.Time
}

// NewCaptureNotifier returns a Notifier that captures codes into store.
func NewCaptureNotifier(next notify.Notifier, store Store) *CaptureNotifier {
	return &CaptureNotifier{next: next, store: store, now: time.Now}
}

// SendRecoveryCode captures the code, then forwards to the wrapped notifier.
// The code is captured before forwarding so it is retrievable even for
// identifiers the mailer cannot resolve.
func (n *CaptureNotifier) SendRecoveryCode(ctx context.Context, identifier, code string) error {
	n.store.Put(ctx, identifier, code, n.now().UTC().Add(challengedomain.TTL))
	return n.next.SendRecoveryCode(ctx, identifier, code)
}

// SendResetConfirmation forwards to the wrapped notifier.
func (n *CaptureNotifier) SendResetConfirmation(ctx context.Context, identifier string) error {
	return n.next.SendResetConfirmation(ctx, identifier)
}
