// Package domain defines the accountant account entity (contadores table).
package domain

import (
	"errors"
	"time"
)

// Contador is an accountant account. TaxID is the CNPJ stored with its mask
// and matched verbatim, exactly as it exists in the registry.
type Contador struct {
	ID           string
	Nome         string
	TaxID        string // CNPJ, masked (e.g. "12.345.678/0001-90")
	Email        string
	Telefone     string
	PasswordHash string // empty until first access
	CreatedAt    time.Time
}

// Validate validates the account for persistence.
func (c *Contador) Validate() error {
	if c.TaxID == "" {
		return errors.New("cnpj is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// HasPassword reports whether the account has completed first access.
func (c *Contador) HasPassword() bool {
	return c.PasswordHash != ""
}
