package domain

import (
	"fmt"
	"strings"
)

// Flag is a set of account property bits.
type Flag uint32

const (
	// FlagHideContact hides the contact address from ordinary queries.
	FlagHideContact Flag = 1 << iota

	// FlagCredentialHashed marks the stored credential as hashed. Absent
	// on the legacy plaintext path.
	FlagCredentialHashed

	// FlagPendingVerification marks an account created under the
	// verification policy that has not yet been activated.
	FlagPendingVerification
)

var flagNames = map[string]Flag{
	"hidecontact": FlagHideContact,
}

// Has reports whether all bits in f2 are set.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// String returns a comma-separated list of set flag names.
func (f Flag) String() string {
	var names []string
	if f.Has(FlagHideContact) {
		names = append(names, "hidecontact")
	}
	if f.Has(FlagCredentialHashed) {
		names = append(names, "credentialhashed")
	}
	if f.Has(FlagPendingVerification) {
		names = append(names, "pendingverification")
	}
	return strings.Join(names, ",")
}

// ParseDefaultFlags parses a comma-separated flag list as used for the
// default-flags configuration value. Only flags that make sense as creation
// defaults are accepted.
func ParseDefaultFlags(s string) (Flag, error) {
	var f Flag
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		bit, ok := flagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown account flag %q", name)
		}
		f |= bit
	}
	return f, nil
}
