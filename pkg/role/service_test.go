package role

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("student")
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, r)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)

	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestEffectivePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  Role
		held  bool
	}{
		{"admin wins over student", []Role{RoleStudent, RoleAdmin}, RoleAdmin, true},
		{"staff wins over student", []Role{RoleStaff, RoleStudent}, RoleStaff, true},
		{"single role", []Role{RoleStudent}, RoleStudent, true},
		{"no roles", []Role{}, Role(""), false},
		{"unknown roles ignored", []Role{Role("janitor")}, Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, held := Effective(tt.roles)
			assert.Equal(t, tt.held, held)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleServiceGrantAndEffectiveRole(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(NewInMemoryRoleRepository())

	accountID := uuid.New()
	adminID := uuid.New()

	assignment, err := svc.Grant(ctx, accountID, RoleStudent, adminID)
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, assignment.Role)
	assert.Equal(t, adminID, assignment.GrantedBy)
	assert.False(t, assignment.GrantedAt.IsZero())

	effective, held, err := svc.EffectiveRole(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, RoleStudent, effective)

	// Adding admin raises the effective role.
	_, err = svc.Grant(ctx, accountID, RoleAdmin, adminID)
	require.NoError(t, err)

	effective, held, err = svc.EffectiveRole(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, held)
	assert.Equal(t, RoleAdmin, effective)
}

func TestRoleServiceGrantDuplicatePair(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(NewInMemoryRoleRepository())

	accountID := uuid.New()
	adminID := uuid.New()

	_, err := svc.Grant(ctx, accountID, RoleStaff, adminID)
	require.NoError(t, err)

	_, err = svc.Grant(ctx, accountID, RoleStaff, adminID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssignmentExists)
}

func TestRoleServiceGrantUnknownRole(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(NewInMemoryRoleRepository())

	_, err := svc.Grant(ctx, uuid.New(), Role("janitor"), uuid.New())
	require.Error(t, err)
}

func TestRoleServiceRevokeAll(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(NewInMemoryRoleRepository())

	accountID := uuid.New()
	adminID := uuid.New()

	_, err := svc.Grant(ctx, accountID, RoleStudent, adminID)
	require.NoError(t, err)
	_, err = svc.Grant(ctx, accountID, RoleStaff, adminID)
	require.NoError(t, err)

	removed, err := svc.RevokeAll(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, held, err := svc.EffectiveRole(ctx, accountID)
	require.NoError(t, err)
	assert.False(t, held)

	// RevokeAll on an account with nothing left is a no-op.
	removed, err = svc.RevokeAll(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
