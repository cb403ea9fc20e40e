package auth

import "time"

// TokenSubject carries the claims placed into an issued token. AccountID is
// the trust anchor; Name and AvatarURL are display hints only and must never
// be used for authorization decisions.
type TokenSubject struct {
	AccountID string
	Name      string
	AvatarURL string
}

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	TokenSubject
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager abstracts token issuance and verification. Both operations
// are pure and stateless: verification needs no store round trip.
type TokenManager interface {
	Issue(subject TokenSubject, ttl time.Duration) (string, error)
	// Verify returns domain.ErrTokenExpired for structurally valid tokens
	// past their expiry and domain.ErrTokenInvalid for everything else.
	Verify(token string) (*TokenClaims, error)
}
