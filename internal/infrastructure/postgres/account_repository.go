package postgres

import (
	"context"
	"errors"

	domain "devconnector/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
)

// AccountRepository persists accounts in PostgreSQL. The unique index on
// lower(email) makes Create the race-safe duplicate check: when two
// concurrent registrations collide, exactly one insert wins and the loser
// observes ErrEmailExists.
type AccountRepository struct {
	pool Pool
}

// NewAccountRepository constructs a repository.
func NewAccountRepository(pool Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Ensure AccountRepository implements the domain contract.
var _ domain.AccountRepository = (*AccountRepository)(nil)

// Create inserts a new account record.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
INSERT INTO accounts (id, name, email, avatar_url, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.AvatarURL,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches an account by email, case-insensitively.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
SELECT id, name, email, avatar_url, password_hash, created_at, updated_at
FROM accounts WHERE lower(email) = lower($1)
`
	row := r.pool.QueryRow(ctx, query, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetByID retrieves an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
SELECT id, name, email, avatar_url, password_hash, created_at, updated_at
FROM accounts WHERE id = $1
`
	row := r.pool.QueryRow(ctx, query, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.AvatarURL,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
