package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/crucial707/staybook/internal/apperr"
	"github.com/crucial707/staybook/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Missing and revoked tokens are authentication failures (401); a token
// that is present but unusable is an authorization failure (403).
var (
	ErrTokenMissing          = apperr.New(apperr.KindAuthentication, "token missing")
	ErrTokenRevoked          = apperr.New(apperr.KindAuthentication, "token revoked")
	ErrTokenMalformed        = apperr.New(apperr.KindAuthorization, "token malformed")
	ErrTokenExpired          = apperr.New(apperr.KindAuthorization, "token expired")
	ErrTokenSignatureInvalid = apperr.New(apperr.KindAuthorization, "token signature invalid")
)

// Claims is the payload of a session token. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity returns the caller described by the claims.
func (c *Claims) Identity() (models.Identity, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return models.Identity{}, ErrTokenMalformed
	}
	return models.Identity{UserID: id, Email: c.Email, Name: c.Name}, nil
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoker Revoker
	now     func() time.Time
}

// NewTokenService returns a TokenService. revoker may be nil, in which case tokens stay valid
// until they expire.
func NewTokenService(secret []byte, ttl time.Duration, revoker Revoker) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, revoker: revoker, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for identity.
func (s *TokenService) Issue(identity models.Identity) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks the signature, expiry and revocation status of token and returns its claims.
func (s *TokenService) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if _, err := claims.Identity(); err != nil {
		return nil, err
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke invalidates the token identified by claims until it would have expired anyway.
// Without a revocation store this is a no-op.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoker == nil || claims == nil || claims.ID == "" {
		return nil
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if !exp.After(s.now()) {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, exp)
}
