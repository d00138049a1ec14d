package security

import "errors"

// Password policy violations. Policy feedback is not security-sensitive and
// may be shown to the caller verbatim.
var (
	ErrPasswordTooShort = errors.New("a senha deve ter no mínimo 8 caracteres")
	ErrPasswordNoLetter = errors.New("a senha deve conter ao menos uma letra")
	ErrPasswordNoDigit  = errors.New("a senha deve conter ao menos um número")
)

// IsPolicyViolation reports whether err is one of the password policy errors.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrPasswordNoLetter) ||
		errors.Is(err, ErrPasswordNoDigit)
}

// PasswordPolicy validates candidate passwords. Only the pass/fail outcome is
// consumed by the recovery flow.
type PasswordPolicy struct {
	MinLength int
}

// DefaultPasswordPolicy returns the policy applied to portal accounts.
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{MinLength: 8}
}

// Check returns nil when password satisfies the policy, or the first
// violation found.
func (p *PasswordPolicy) Check(password string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(password) < minLen {
		return ErrPasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter {
		return ErrPasswordNoLetter
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}
