package client

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// Caller is the authenticated principal attached to a request context.
type Caller struct {
	AccountID uuid.UUID
	Email     string
	// Role is the caller's effective role, resolved from the assignment
	// table at request time rather than trusted from token claims.
	Role          role.Role
	HasRole       bool
	Authenticated bool
}

func (c Caller) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("accountId", c.AccountID.String()),
		slog.String("role", string(c.Role)),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "portal context value " + k.name
}

const ACCESS_TOKEN_NAME = "access_token"

var CallerKey = &contextKey{"Caller"}

// RoleResolver resolves the effective role for an account.
type RoleResolver interface {
	EffectiveRole(ctx context.Context, accountID uuid.UUID) (role.Role, bool, error)
}

// GetCaller returns the caller stored by CallerMiddleware, or an
// unauthenticated zero value when none is present.
func GetCaller(r *http.Request) Caller {
	if c, ok := r.Context().Value(CallerKey).(Caller); ok {
		return c
	}
	return Caller{}
}

// Verifier wraps jwtauth verification with cookie and header extraction.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CallerMiddleware builds the request Caller from the verified token and
// the role assignment table. It never rejects on its own; RequireAuth and
// RequireRole do the gatekeeping so public routes can share the chain.
func CallerMiddleware(roles RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				next.ServeHTTP(w, r)
				return
			}

			accountID, err := uuid.Parse(token.Subject())
			if err != nil {
				slog.Warn("Token subject is not an account id", "subject", token.Subject())
				next.ServeHTTP(w, r)
				return
			}

			caller := Caller{AccountID: accountID, Authenticated: true}
			if email, ok := claims["email"].(string); ok {
				caller.Email = email
			}

			effective, held, err := roles.EffectiveRole(r.Context(), accountID)
			if err != nil {
				slog.Error("Failed to resolve caller role", "accountId", accountID, "err", err)
			} else if held {
				caller.Role = effective
				caller.HasRole = true
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
