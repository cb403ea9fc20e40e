package auth

import "context"

// AccountRepository defines persistence operations for accounts.
//
// Create must fail with ErrEmailExists when an account with the same
// normalized email already exists, enforced atomically by the store itself.
// That failure is the authoritative duplicate signal under concurrent
// registrations; an earlier GetByEmail check is only advisory.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
}
