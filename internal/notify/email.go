package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	accountrepo "portal-xml/backend/internal/account/repository"
)

// EmailNotifier sends recovery mail over SMTP. When Enabled is false the
// message is logged instead of sent (development only; refused in production
// by config validation).
//
// Recipient resolution happens on the caller's path; the SMTP transaction
// does not. An SMTP dial takes orders of magnitude longer than the lookup,
// so a synchronous send would let issuance latency separate existing from
// non-existing accounts.
type EmailNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool

	accounts accountrepo.Repository
	deliver  func(to, subject, body string) error
}

// NewEmailNotifier returns a Notifier that resolves identifiers through the
// account repository and delivers via the given SMTP server.
func NewEmailNotifier(host, port, username, password, from string, enabled bool, accounts accountrepo.Repository) *EmailNotifier {
	n := &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		Enabled:  enabled,
		accounts: accounts,
	}
	n.deliver = n.send
	return n
}

// SendRecoveryCode delivers the one-time code to the account's email address.
// Returns ErrUnknownRecipient when the identifier resolves to no account; the
// resolution work is done either way. Delivery itself is dispatched off the
// caller's path and delivery failures are logged, never returned.
func (n *EmailNotifier) SendRecoveryCode(ctx context.Context, identifier, code string) error {
	acct, err := n.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrUnknownRecipient
	}

	subject := "Portal XML - Código de recuperação de senha"
	body := fmt.Sprintf(
		"Olá, %s.\r\n\r\n"+
			"Seu código de recuperação de senha é: %s\r\n\r\n"+
			"O código expira em 15 minutos. Se você não solicitou a recuperação, ignore este e-mail.\r\n",
		acct.Nome, code,
	)
	n.dispatch(acct.Email, subject, body)
	return nil
}

// SendResetConfirmation informs the account that its password was changed.
func (n *EmailNotifier) SendResetConfirmation(ctx context.Context, identifier string) error {
	acct, err := n.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrUnknownRecipient
	}

	subject := "Portal XML - Senha alterada"
	body := fmt.Sprintf(
		"Olá, %s.\r\n\r\n"+
			"A senha da sua conta foi alterada. Se não foi você, entre em contato com o suporte imediatamente.\r\n",
		acct.Nome,
	)
	n.dispatch(acct.Email, subject, body)
	return nil
}

// dispatch hands the message to the mailer in its own goroutine.
func (n *EmailNotifier) dispatch(to, subject, body string) {
	go func() {
		if err := n.deliver(to, subject, body); err != nil {
			log.Error().Err(err).Str("to", to).Msg("email delivery failed")
		}
	}()
}

func (n *EmailNotifier) send(to, subject, body string) error {
	if !n.Enabled {
		log.Info().Str("to", to).Str("subject", subject).Msg("email disabled, message not sent")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + n.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := n.Host + ":" + n.Port
	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)
	if err := smtp.SendMail(addr, auth, n.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
