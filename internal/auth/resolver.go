package auth

import (
	"net/http"
	"strings"

	"github.com/crucial707/staybook/internal/models"
)

// CookieName is the session cookie set on login.
const CookieName = "token"

// Resolver turns an incoming request into a verified identity.
type Resolver struct {
	Tokens *TokenService
}

func NewResolver(tokens *TokenService) *Resolver {
	return &Resolver{Tokens: tokens}
}

// Resolve reads the session token from the token cookie, or from an Authorization: Bearer header
// when no cookie is present, and verifies it. The verification error is returned unchanged.
func (res *Resolver) Resolve(r *http.Request) (models.Identity, *Claims, error) {
	claims, err := res.Tokens.Verify(r.Context(), TokenFromRequest(r))
	if err != nil {
		return models.Identity{}, nil, err
	}
	identity, err := claims.Identity()
	if err != nil {
		return models.Identity{}, nil, err
	}
	return identity, claims, nil
}

// TokenFromRequest returns the raw session token, or "" if the request carries none.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
