package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "devconnector/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// Config carries the tunables the service needs, fixed at construction.
type Config struct {
	// RegisterTokenTTL bounds tokens minted for freshly registered accounts.
	RegisterTokenTTL time.Duration
	// LoginTokenTTL bounds tokens minted on login; shorter than registration's.
	LoginTokenTTL time.Duration
}

// Service coordinates credential workflows between domain and infrastructure.
// It holds no mutable state between requests; the repository is the only
// shared collaborator and the uniqueness constraint it enforces is the only
// synchronization point.
type Service struct {
	accounts  domain.AccountRepository
	hasher    PasswordHasher
	tokens    TokenManager
	cfg       Config
	decoyHash string
	nowFunc   func() time.Time
}

// NewService constructs the credential service. It pre-computes a decoy
// password hash so login can burn a real verification when the email does
// not resolve to an account.
func NewService(accounts domain.AccountRepository, hasher PasswordHasher, tokens TokenManager, cfg Config) (*Service, error) {
	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		cfg:       cfg,
		decoyHash: decoy,
		nowFunc:   time.Now,
	}, nil
}

// Register creates a new account and returns a bearer token for it alongside
// the persisted entity, password hash stripped.
//
// Validation runs before any store or hashing work. The GetByEmail pre-check
// is advisory only: two concurrent registrations with the same email can both
// pass it, so the store's unique constraint on Create is the authoritative
// duplicate signal.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, *domain.Account, error) {
	if errs := validateRegistration(name, email, password); len(errs) > 0 {
		return "", nil, errs
	}

	email = normalizeEmail(email)

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	now := s.nowFunc().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		AvatarURL:    gravatarURL(email),
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// A racing registration may have won since the pre-check; the
		// constraint violation surfaces here as ErrEmailExists.
		return "", nil, err
	}

	token, err := s.tokens.Issue(subjectFor(account), s.cfg.RegisterTokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeAccount(account), nil
}

// Login validates credentials and returns a token plus the account.
// An unknown email and a wrong password are indistinguishable to the caller:
// same error, and a decoy hash verification keeps the timing comparable.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.Account, error) {
	email := normalizeEmail(creds.Email)
	password := creds.Password
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.decoyHash)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(subjectFor(account), s.cfg.LoginTokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeAccount(account), nil
}

// VerifyToken validates a bearer token and returns the associated account.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	return sanitizeAccount(account), nil
}

func subjectFor(account *domain.Account) TokenSubject {
	return TokenSubject{
		AccountID: account.ID,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
	}
}

func sanitizeAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	copy := *a
	copy.PasswordHash = ""
	return &copy
}
