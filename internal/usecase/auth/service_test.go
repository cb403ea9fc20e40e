package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	domain "devconnector/backend/internal/domain/auth"
	"devconnector/backend/internal/infrastructure/hash"
	"devconnector/backend/internal/infrastructure/token"
	authusecase "devconnector/backend/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryRepo is an in-memory AccountRepository that enforces email
// uniqueness atomically, like the real store's unique index.
type memoryRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
	byID    map[string]*domain.Account
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byEmail: make(map[string]*domain.Account),
		byID:    make(map[string]*domain.Account),
	}
}

func (r *memoryRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, exists := r.byEmail[key]; exists {
		return domain.ErrEmailExists
	}
	stored := *account
	r.byEmail[key] = &stored
	r.byID[account.ID] = &stored
	return nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	found := *account
	return &found, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	found := *account
	return &found, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

func (r *memoryRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byEmail, strings.ToLower(account.Email))
}

func newTestService(t *testing.T, repo *memoryRepo) (*authusecase.Service, *token.JWTManager) {
	t.Helper()
	tokens := token.NewJWTManager("test-secret", "test")
	svc, err := authusecase.NewService(repo, hash.NewBcryptHasher(bcrypt.MinCost), tokens, authusecase.Config{
		RegisterTokenTTL: 24 * time.Hour,
		LoginTokenTTL:    2 * time.Hour,
	})
	require.NoError(t, err)
	return svc, tokens
}

func TestRegister_Success(t *testing.T) {
	repo := newMemoryRepo()
	svc, tokens := newTestService(t, repo)

	tok, account, err := svc.Register(context.Background(), "Ann", "Ann@Example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.Equal(t, "ann@example.com", account.Email, "email stored normalized")
	assert.Equal(t, "Ann", account.Name)
	assert.NotEmpty(t, account.ID)
	assert.Contains(t, account.AvatarURL, "gravatar.com/avatar/")
	assert.Empty(t, account.PasswordHash, "returned account must not carry the hash")
	assert.Equal(t, 1, repo.count())

	stored, err := repo.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash, "plaintext must never be persisted")

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
}

func TestRegister_ValidationOrderAndNoSideEffects(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "  ", "not-an-email", "short")
	var fieldErrs domain.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 3)
	assert.Equal(t, "name", fieldErrs[0].Field)
	assert.Equal(t, "email", fieldErrs[1].Field)
	assert.Equal(t, "password", fieldErrs[2].Field)
	assert.Equal(t, 0, repo.count(), "validation failure must not persist anything")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	// Same email, different case.
	_, _, err = svc.Register(context.Background(), "Ann2", "ANN@example.com", "other12")
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.Equal(t, 1, repo.count())
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, domain.ErrEmailExists)
			duplicates++
		}
	}
	assert.Equal(t, 1, successes, "exactly one registration wins the race")
	assert.Equal(t, racers-1, duplicates)
	assert.Equal(t, 1, repo.count())
}

func TestLogin_Success(t *testing.T) {
	repo := newMemoryRepo()
	svc, tokens := newTestService(t, repo)

	_, registered, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	tok, account, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "Ann@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)
	assert.Empty(t, account.PasswordHash)

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.AccountID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	_, _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), domain.Credentials{
		Email:    "ann@example.com",
		Password: "not-the-password",
	})
	_, _, unknownEmail := svc.Login(context.Background(), domain.Credentials{
		Email:    "nobody@example.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail, "both failure kinds surface the same error")
}

func TestVerifyToken(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	tok, registered, err := svc.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)

	account, err := svc.VerifyToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)

	_, err = svc.VerifyToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// A valid token whose account no longer exists is rejected too.
	repo.delete(registered.ID)
	_, err = svc.VerifyToken(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
