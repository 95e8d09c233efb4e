// Package repository provides durable keyed storage of accounts.
//
// The registration workflow requires a single atomic primitive combining
// the case-insensitive name-absent check, the per-contact-address quota
// check and the insert. Counting and then inserting without a shared
// critical section leaves a race window in which two concurrent attempts
// can both pass the quota scan; every implementation here closes it.
package repository

import (
	"context"

	"github.com/accountserv/accountserv/pkg/domain"
)

// AccountRepository is the durable keyed store of accounts. Name lookups
// are case-insensitive; contact-address counting folds case and surrounding
// whitespace.
type AccountRepository interface {
	// GetByName retrieves an account by name, case-insensitively.
	// Returns domain.ErrAccountNotFound if absent.
	GetByName(ctx context.Context, name string) (*domain.Account, error)

	// Create atomically verifies that no account with the same folded
	// name exists and that fewer than maxPerAddress accounts share the
	// folded contact address, then inserts. Returns
	// domain.ErrAccountExists or domain.ErrQuotaExceeded; on either
	// failure nothing is inserted. maxPerAddress <= 0 disables the
	// quota check.
	Create(ctx context.Context, acct *domain.Account, maxPerAddress int) error

	// Delete removes an account by name. Deleting an absent account is
	// a no-op, not an error; the rollback path relies on idempotency.
	Delete(ctx context.Context, name string) error

	// CountByContactAddress counts accounts whose folded contact address
	// matches the candidate.
	CountByContactAddress(ctx context.Context, address string) (int, error)

	// ForEach enumerates all accounts. fn returning an error stops the
	// scan and propagates the error.
	ForEach(ctx context.Context, fn func(*domain.Account) error) error
}
