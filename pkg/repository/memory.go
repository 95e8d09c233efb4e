package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/accountserv/accountserv/pkg/domain"
)

// MemoryRepository is an in-process AccountRepository. It backs embedded
// deployments and tests. A secondary index keyed by folded contact address
// keeps quota counting O(1) instead of a full scan.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account // folded name -> account
	byAddr   map[string]int             // folded contact address -> count
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*domain.Account),
		byAddr:   make(map[string]int),
	}
}

func foldName(name string) string {
	return strings.ToLower(name)
}

func foldAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// GetByName retrieves an account by name, case-insensitively.
func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[foldName(name)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct, nil
}

// Create inserts an account after the name and quota checks pass, all under
// one critical section.
func (r *MemoryRepository) Create(ctx context.Context, acct *domain.Account, maxPerAddress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[foldName(acct.Name)]; ok {
		return domain.ErrAccountExists
	}

	addr := foldAddress(acct.ContactAddress)
	if maxPerAddress > 0 && r.byAddr[addr] >= maxPerAddress {
		return domain.ErrQuotaExceeded
	}

	r.accounts[foldName(acct.Name)] = acct
	r.byAddr[addr]++
	return nil
}

// Delete removes an account by name. Absent accounts are a no-op.
func (r *MemoryRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[foldName(name)]
	if !ok {
		return nil
	}

	delete(r.accounts, foldName(name))

	addr := foldAddress(acct.ContactAddress)
	if r.byAddr[addr] <= 1 {
		delete(r.byAddr, addr)
	} else {
		r.byAddr[addr]--
	}
	return nil
}

// CountByContactAddress counts accounts sharing the folded address.
func (r *MemoryRepository) CountByContactAddress(ctx context.Context, address string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byAddr[foldAddress(address)], nil
}

// ForEach enumerates all accounts under a read lock.
func (r *MemoryRepository) ForEach(ctx context.Context, fn func(*domain.Account) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acct := range r.accounts {
		if err := fn(acct); err != nil {
			return err
		}
	}
	return nil
}
