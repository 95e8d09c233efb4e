package register

import (
	"fmt"
	"strings"

	"github.com/accountserv/accountserv/pkg/auth"
	"github.com/accountserv/accountserv/pkg/domain"
)

// MaxCredentialLen is the longest accepted raw credential.
const MaxCredentialLen = 32

// AddressChecker is the pluggable syntax check for contact addresses.
type AddressChecker func(address string) error

// Validator performs the pure input-shape checks on a registration request.
type Validator struct {
	checkAddress AddressChecker
}

// NewValidator creates a validator. A nil checker falls back to the
// email-style syntax check in pkg/auth.
func NewValidator(check AddressChecker) *Validator {
	if check == nil {
		check = auth.ValidateAddress
	}
	return &Validator{checkAddress: check}
}

// Validate checks the three registration fields. It has no side effects.
func (v *Validator) Validate(name, credential, address string) error {
	if name == "" || credential == "" || address == "" {
		return domain.ErrMissingParameters
	}
	if len(credential) > MaxCredentialLen || len(address) >= auth.MaxAddressLength {
		return domain.ErrInvalidParameters
	}
	if strings.EqualFold(credential, name) {
		return domain.ErrCredentialEqualsName
	}
	if err := v.checkAddress(address); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAddress, address)
	}
	return nil
}
