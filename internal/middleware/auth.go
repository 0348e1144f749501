package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/crucial707/staybook/internal/apperr"
	"github.com/crucial707/staybook/internal/auth"
	"github.com/crucial707/staybook/internal/metrics"
	"github.com/crucial707/staybook/internal/models"
)

type key string

const (
	identityKey key = "identity"
	claimsKey   key = "claims"
)

// RequireIdentity rejects requests without a valid session token. Missing or revoked tokens get
// 401; expired, forged or malformed tokens get 403. On success the identity and claims are
// stored in the request context.
func RequireIdentity(res *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, claims, err := res.Resolve(r)
			if err != nil {
				metrics.IncAuthFailures(failureReason(err))
				e, ok := apperr.As(err)
				if !ok {
					LoggerFrom(r.Context()).Error("resolve identity", "error", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				writeJSONError(w, apperr.HTTPStatus(err), e.Message)
				return
			}
			ctx := WithIdentity(r.Context(), identity, claims)
			ctx = context.WithValue(ctx, loggerKey, LoggerFrom(ctx).With("user_id", identity.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns ctx carrying the verified caller.
func WithIdentity(ctx context.Context, identity models.Identity, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, claimsKey, claims)
}

// IdentityFrom returns the caller stored by RequireIdentity.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// ClaimsFrom returns the token claims stored by RequireIdentity.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return "missing"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, auth.ErrTokenMalformed):
		return "malformed"
	default:
		return "error"
	}
}
