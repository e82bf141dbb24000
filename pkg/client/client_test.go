package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/campuskit/campus-portal/pkg/tokengenerator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T, roles *role.RoleService, handler http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	t.Helper()
	ja := jwtauth.New("HS256", []byte(testSecret), nil)
	r := chi.NewRouter()
	r.Use(Verifier(ja))
	r.Use(CallerMiddleware(roles))
	r.Use(middlewares...)
	r.Get("/resource", handler)
	return r
}

func issueToken(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	tg := tokengenerator.NewJwtTokenGenerator(testSecret, "campus-portal", "campus-portal")
	token, _, err := tg.GenerateToken(accountID.String(), time.Hour, nil)
	require.NoError(t, err)
	return token
}

func TestCallerMiddleware(t *testing.T) {
	roles := role.NewRoleService(role.NewInMemoryRoleRepository())
	accountID := uuid.New()
	_, err := roles.Grant(context.Background(), accountID, role.RoleStaff, accountID)
	require.NoError(t, err)

	var got Caller
	router := newTestRouter(t, roles, func(w http.ResponseWriter, r *http.Request) {
		got = GetCaller(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, accountID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Authenticated)
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, role.RoleStaff, got.Role)
	assert.True(t, got.HasRole)
}

func TestCallerMiddlewareTokenFromCookie(t *testing.T) {
	roles := role.NewRoleService(role.NewInMemoryRoleRepository())
	accountID := uuid.New()

	var got Caller
	router := newTestRouter(t, roles, func(w http.ResponseWriter, r *http.Request) {
		got = GetCaller(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.AddCookie(&http.Cookie{Name: ACCESS_TOKEN_NAME, Value: issueToken(t, accountID)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Authenticated)
	assert.False(t, got.HasRole)
}

func TestRequireAuth(t *testing.T) {
	roles := role.NewRoleService(role.NewInMemoryRoleRepository())
	router := newTestRouter(t, roles, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, RequireAuth)

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.New()))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	roles := role.NewRoleService(role.NewInMemoryRoleRepository())
	admin := uuid.New()
	student := uuid.New()
	_, err := roles.Grant(context.Background(), admin, role.RoleAdmin, admin)
	require.NoError(t, err)
	_, err = roles.Grant(context.Background(), student, role.RoleStudent, admin)
	require.NoError(t, err)

	router := newTestRouter(t, roles, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, RequireAdmin)

	tests := []struct {
		name     string
		token    string
		expected int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"student token", issueToken(t, student), http.StatusForbidden},
		{"no role", issueToken(t, uuid.New()), http.StatusForbidden},
		{"admin token", issueToken(t, admin), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestRequireRolePrecedence(t *testing.T) {
	// An account holding both student and admin acts as admin.
	roles := role.NewRoleService(role.NewInMemoryRoleRepository())
	accountID := uuid.New()
	_, err := roles.Grant(context.Background(), accountID, role.RoleStudent, accountID)
	require.NoError(t, err)
	_, err = roles.Grant(context.Background(), accountID, role.RoleAdmin, accountID)
	require.NoError(t, err)

	router := newTestRouter(t, roles, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, RequireAdmin)

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, accountID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
