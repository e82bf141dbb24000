package client

import (
	"log/slog"
	"net/http"

	"github.com/campuskit/campus-portal/pkg/role"
)

// RequireAuth returns 401 for unauthenticated requests.
// Must be used after CallerMiddleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := GetCaller(r)

		if !caller.Authenticated {
			slog.Debug("Unauthenticated request to protected resource", "path", r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole returns a middleware that checks the caller's effective role
// against the given set. Returns 401 if not authenticated, 403 if the
// effective role is not in the set. Must be used after CallerMiddleware.
func RequireRole(roles ...role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := GetCaller(r)

			if !caller.Authenticated {
				slog.Debug("Unauthenticated request to role-protected resource", "requiredRoles", roles)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !caller.HasRole || !containsRole(roles, caller.Role) {
				slog.Warn("Caller lacks required role",
					"accountId", caller.AccountID,
					"role", caller.Role,
					"requiredRoles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience for the admin-only surfaces.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(role.RoleAdmin)(next)
}

func containsRole(roles []role.Role, r role.Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}
