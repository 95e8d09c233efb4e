package domain

import (
	"strconv"
	"time"
)

// VerificationToken is the ephemeral activation secret attached to an
// account created under the verification policy. It lives in the account
// metadata until the matching verify command consumes it.
type VerificationToken struct {
	Value    string
	IssuedAt time.Time
}

// MinVerificationTokenLen is the minimum length of a verification token.
const MinVerificationTokenLen = 12

// Attach stores the token on the account under the private verification
// namespace, leaving the account structurally ready for later consumption.
func (t VerificationToken) Attach(a *Account) {
	a.Metadata.Set(MetaVerifyKey, t.Value)
	a.Metadata.Set(MetaVerifyTimestamp, strconv.FormatInt(t.IssuedAt.Unix(), 10))
}

// VerificationTokenOf reads the pending token back from account metadata.
// The second return is false if no token is attached.
func VerificationTokenOf(a *Account) (VerificationToken, bool) {
	value, ok := a.Metadata.Get(MetaVerifyKey)
	if !ok {
		return VerificationToken{}, false
	}
	tok := VerificationToken{Value: value}
	if ts, ok := a.Metadata.Get(MetaVerifyTimestamp); ok {
		if unix, err := strconv.ParseInt(ts, 10, 64); err == nil {
			tok.IssuedAt = time.Unix(unix, 0)
		}
	}
	return tok, true
}
