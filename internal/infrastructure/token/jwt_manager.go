package token

import (
	"errors"
	"time"

	domain "devconnector/backend/internal/domain/auth"
	usecase "devconnector/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates HS256-signed JWTs. The signing secret is
// process-wide configuration, loaded once at startup.
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager constructs a manager with the provided secret and issuer.
func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// Claims represents token claims. UID is authoritative; name and avatar are
// display hints carried for convenience.
type Claims struct {
	UID    string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Issue creates a signed JWT for the subject, expiring ttl from now.
func (m *JWTManager) Issue(subject usecase.TokenSubject, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UID:    subject.AccountID,
		Name:   subject.Name,
		Avatar: subject.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates the token. Expiry of an otherwise valid token
// reports domain.ErrTokenExpired; every other failure, including a signature
// mismatch, reports domain.ErrTokenInvalid.
func (m *JWTManager) Verify(tokenString string) (*usecase.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	out := &usecase.TokenClaims{
		TokenSubject: usecase.TokenSubject{
			AccountID: claims.UID,
			Name:      claims.Name,
			AvatarURL: claims.Avatar,
		},
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
