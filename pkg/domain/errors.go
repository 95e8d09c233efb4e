package domain

import (
	"errors"
	"fmt"
)

// Registration errors. All are expected, user-facing outcomes; each maps to
// exactly one textual response to the initiating session.
var (
	ErrMissingParameters          = errors.New("insufficient parameters")
	ErrInvalidParameters          = errors.New("invalid parameters")
	ErrCredentialEqualsName       = errors.New("credential matches account name")
	ErrInvalidAddress             = errors.New("invalid contact address")
	ErrAccountExists              = errors.New("account already registered")
	ErrQuotaExceeded              = errors.New("contact address has too many accounts")
	ErrNotificationDeliveryFailed = errors.New("verification delivery failed")
)

// Repository errors.
var (
	ErrAccountNotFound = errors.New("account not found")
)

// AlreadyRegisteredError reports a name collision. Visible indicates whether
// the caller is entitled to see the existing account's contact address:
// the caller is privileged, already owns that account, or the account does
// not hide its contact address.
type AlreadyRegisteredError struct {
	Name           string
	ContactAddress string
	Visible        bool
}

func (e *AlreadyRegisteredError) Error() string {
	if e.Visible {
		return fmt.Sprintf("%s is already registered to %s", e.Name, e.ContactAddress)
	}
	return fmt.Sprintf("%s is already registered", e.Name)
}

func (e *AlreadyRegisteredError) Unwrap() error { return ErrAccountExists }

// QuotaExceededError reports that a contact address already holds the
// maximum permitted number of accounts.
type QuotaExceededError struct {
	ContactAddress string
	Max            int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s has too many accounts registered (limit %d)", e.ContactAddress, e.Max)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }
