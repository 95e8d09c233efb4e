package auth

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// Address validation regex (stricter than RFC 5322 for practical use)
var addressRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// MaxAddressLength is the RFC 5321 limit on a full email address.
const MaxAddressLength = 254

// ValidateAddress checks an email-style contact address for format and
// length. It is the default syntax checker behind the registration
// validator's pluggable address check.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("contact address is required")
	}

	if len(address) > MaxAddressLength {
		return fmt.Errorf("contact address is too long (max %d characters)", MaxAddressLength)
	}

	normalized := NormalizeAddress(address)

	// Use mail.ParseAddress for basic RFC 5322 compliance
	addr, err := mail.ParseAddress(normalized)
	if err != nil {
		return fmt.Errorf("invalid contact address format")
	}

	if !addressRegex.MatchString(addr.Address) {
		return fmt.Errorf("invalid contact address format")
	}

	return nil
}

// NormalizeAddress folds an address for comparison: trimmed and lowercased.
// Name uniqueness and per-address quota counting both compare folded values.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
