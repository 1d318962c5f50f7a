package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/response"
)

const (
	msgNoToken      = "Unauthorized: No token provided"
	msgInvalidToken = "Unauthorized: Invalid token"
	msgForbidden    = "You do not have permission to access this resource"
)

type claimsKey struct{}

// TokenVerifier verifies bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator guards handlers with bearer token authentication
type Authenticator struct {
	tokens TokenVerifier
}

// NewAuthenticator creates an authenticator backed by tokens
func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token and stores the claims in the context
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			logger.Warn(r.Context()).Str("path", r.URL.Path).Msg("Missing bearer token")
			response.Error(w, r, apperror.Unauthorized(msgNoToken))
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			logger.Warn(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Invalid token")
			response.Error(w, r, apperror.Unauthorized(msgInvalidToken))
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	}
}

// Authorize authenticates the request and then requires the exact role
func (a *Authenticator) Authorize(role string, next http.HandlerFunc) http.HandlerFunc {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims == nil || claims.Role != role {
			logger.Warn(r.Context()).Str("required_role", role).Msg("Access denied")
			response.Error(w, r, apperror.Forbidden(msgForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithClaims stores verified claims in ctx
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
