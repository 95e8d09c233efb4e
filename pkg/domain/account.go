package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Account represents a registered services account.
type Account struct {
	ID             uuid.UUID
	Name           string
	CredentialHash string
	ContactAddress string
	Flags          Flag
	RegisteredAt   time.Time
	LastActivityAt time.Time
	Metadata       Metadata

	// sessions currently bound to this account. The account does not own
	// them; the transport layer attaches and detaches as users log in and
	// disconnect.
	mu       sync.Mutex
	sessions map[Session]struct{}
}

// Pending reports whether the account is still waiting for out-of-band
// verification. A pending account must not be identity-bound.
func (a *Account) Pending() bool {
	return a.Flags.Has(FlagPendingVerification)
}

// AttachSession records a session as bound to this account.
func (a *Account) AttachSession(s Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessions == nil {
		a.sessions = make(map[Session]struct{})
	}
	a.sessions[s] = struct{}{}
}

// DetachSession removes a session from the bound set. Detaching a session
// that was never attached is a no-op.
func (a *Account) DetachSession(s Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, s)
}

// BoundSessions returns the sessions currently bound to the account.
func (a *Account) BoundSessions() []Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Session, 0, len(a.sessions))
	for s := range a.sessions {
		out = append(out, s)
	}
	return out
}

// Clone returns a copy of the account safe to hand to other goroutines.
// Bound sessions are not copied; they belong to the live account.
func (a *Account) Clone() *Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &Account{
		ID:             a.ID,
		Name:           a.Name,
		CredentialHash: a.CredentialHash,
		ContactAddress: a.ContactAddress,
		Flags:          a.Flags,
		RegisteredAt:   a.RegisteredAt,
		LastActivityAt: a.LastActivityAt,
		Metadata:       a.Metadata.Clone(),
	}
}

// Session is the transport-level caller an account can be bound to.
// The session/transport implementation lives outside this module; the
// registration workflow only needs the caller's wire identity, privilege
// state and the binding operations.
type Session interface {
	// Username returns the transport-level username of the caller.
	Username() string

	// Host returns the caller's actual host.
	Host() string

	// VirtualHost returns the caller's displayed (cloaked) host. For
	// transports without host cloaking this equals Host.
	VirtualHost() string

	// Privileged reports whether the caller holds elevated operator
	// status on the surrounding network.
	Privileged() bool

	// Account returns the account this session is currently bound to,
	// or nil.
	Account() *Account

	// Bind grants the session authenticated ownership of the account.
	Bind(*Account)
}
