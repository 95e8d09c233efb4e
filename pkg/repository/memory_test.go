package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/accountserv/accountserv/pkg/domain"
)

func testAccount(name, address string) *domain.Account {
	now := time.Now()
	return &domain.Account{
		ID:             uuid.New(),
		Name:           name,
		CredentialHash: "hash",
		ContactAddress: address,
		RegisteredAt:   now,
		LastActivityAt: now,
	}
}

func TestMemoryRepository_GetByName_CaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, testAccount("Bob", "b@x.com"), 0); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, name := range []string{"bob", "BOB", "Bob"} {
		acct, err := repo.GetByName(ctx, name)
		if err != nil {
			t.Fatalf("GetByName(%q) failed: %v", name, err)
		}
		if acct.Name != "Bob" {
			t.Errorf("GetByName(%q).Name = %q, want %q", name, acct.Name, "Bob")
		}
	}

	if _, err := repo.GetByName(ctx, "carol"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("GetByName(missing) = %v, want ErrAccountNotFound", err)
	}
}

func TestMemoryRepository_Create_DuplicateName(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, testAccount("bob", "b@x.com"), 0); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, testAccount("BOB", "c@x.com"), 0)
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("Create duplicate = %v, want ErrAccountExists", err)
	}

	// The losing insert must not consume a quota slot.
	count, _ := repo.CountByContactAddress(ctx, "c@x.com")
	if count != 0 {
		t.Errorf("CountByContactAddress = %d after failed create, want 0", count)
	}
}

func TestMemoryRepository_Create_Quota(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	const max = 2

	if err := repo.Create(ctx, testAccount("u1", "shared@x.com"), max); err != nil {
		t.Fatalf("Create u1 failed: %v", err)
	}
	// Folding: case and surrounding whitespace.
	if err := repo.Create(ctx, testAccount("u2", "  Shared@X.COM "), max); err != nil {
		t.Fatalf("Create u2 failed: %v", err)
	}

	err := repo.Create(ctx, testAccount("u3", "shared@x.com"), max)
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("Create over quota = %v, want ErrQuotaExceeded", err)
	}

	// maxPerAddress <= 0 disables the check.
	if err := repo.Create(ctx, testAccount("u4", "shared@x.com"), 0); err != nil {
		t.Errorf("Create with disabled quota = %v, want nil", err)
	}
}

func TestMemoryRepository_Delete_Idempotent(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Create(ctx, testAccount("bob", "b@x.com"), 0); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, "BOB"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "bob"); err != nil {
		t.Errorf("second Delete = %v, want nil (no-op)", err)
	}

	if _, err := repo.GetByName(ctx, "bob"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("GetByName after delete = %v, want ErrAccountNotFound", err)
	}
	count, _ := repo.CountByContactAddress(ctx, "b@x.com")
	if count != 0 {
		t.Errorf("CountByContactAddress after delete = %d, want 0", count)
	}
}

func TestMemoryRepository_ForEach(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, testAccount(fmt.Sprintf("user%d", i), "u@x.com"), 0); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	seen := 0
	err := repo.ForEach(ctx, func(*domain.Account) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach failed: %v", err)
	}
	if seen != 3 {
		t.Errorf("ForEach visited %d accounts, want 3", seen)
	}

	stop := errors.New("stop")
	if err := repo.ForEach(ctx, func(*domain.Account) error { return stop }); !errors.Is(err, stop) {
		t.Errorf("ForEach error = %v, want propagated stop error", err)
	}
}

func TestMemoryRepository_Create_QuotaRace(t *testing.T) {
	// Concurrent creates against one address must never exceed the quota.
	repo := NewMemoryRepository()
	ctx := context.Background()
	const max = 4
	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- repo.Create(ctx, testAccount(fmt.Sprintf("racer%d", i), "hot@x.com"), max)
		}(i)
	}
	wg.Wait()
	close(results)

	created := 0
	for err := range results {
		if err == nil {
			created++
		} else if !errors.Is(err, domain.ErrQuotaExceeded) {
			t.Errorf("unexpected create error: %v", err)
		}
	}
	if created != max {
		t.Errorf("%d accounts created under quota %d", created, max)
	}
}
