package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/accountserv/accountserv/pkg/domain"
)

// registrationLockKey is the advisory lock serializing registration inserts.
// Holding a single per-repository lock for the name check, quota count and
// insert closes the race between the checks and the create.
const registrationLockKey = 0x5245474143435431 // "REGACCT1"

// PostgresRepository is the Postgres-backed AccountRepository.
// Run migrations from migrations/ before use.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Postgres-backed repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, name, credential_hash, contact_address, flags, registered_at, last_activity_at, metadata`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	acct := &domain.Account{}
	var metadata []byte
	err := row.Scan(
		&acct.ID, &acct.Name, &acct.CredentialHash, &acct.ContactAddress,
		&acct.Flags, &acct.RegisteredAt, &acct.LastActivityAt, &metadata,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &acct.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode account metadata: %w", err)
		}
	}
	return acct, nil
}

// GetByName retrieves an account by name, case-insensitively.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE lower(name) = lower($1)
	`
	acct, err := scanAccount(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Create inserts an account after the name and quota checks pass, all in a
// single transaction under the registration advisory lock.
func (r *PostgresRepository) Create(ctx context.Context, acct *domain.Account, maxPerAddress int) error {
	metadata, err := json.Marshal(acct.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode account metadata: %w", err)
	}

	return Tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registrationLockKey); err != nil {
			return err
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(name) = lower($1))`,
			acct.Name,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAccountExists
		}

		if maxPerAddress > 0 {
			var count int
			err := tx.QueryRowContext(ctx,
				`SELECT count(*) FROM accounts WHERE lower(btrim(contact_address)) = lower(btrim($1))`,
				acct.ContactAddress,
			).Scan(&count)
			if err != nil {
				return err
			}
			if count >= maxPerAddress {
				return domain.ErrQuotaExceeded
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			acct.ID, acct.Name, acct.CredentialHash, acct.ContactAddress,
			acct.Flags, acct.RegisteredAt, acct.LastActivityAt, metadata,
		)
		if isUniqueViolation(err) {
			// The unique index on lower(name) backstops the explicit check.
			return domain.ErrAccountExists
		}
		return err
	})
}

// Delete removes an account by name. Absent accounts are a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE lower(name) = lower($1)`, name)
	return err
}

// CountByContactAddress counts accounts sharing the folded address.
func (r *PostgresRepository) CountByContactAddress(ctx context.Context, address string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM accounts WHERE lower(btrim(contact_address)) = lower(btrim($1))`,
		address,
	).Scan(&count)
	return count, err
}

// ForEach enumerates all accounts.
func (r *PostgresRepository) ForEach(ctx context.Context, fn func(*domain.Account) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return err
		}
		if err := fn(acct); err != nil {
			return err
		}
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
