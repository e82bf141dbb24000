package role

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// RoleService provides role-assignment operations and effective-role
// resolution. Writes to role assignments happen only through the
// provisioning workflows; dashboard components read via EffectiveRole.
type RoleService struct {
	repo RoleRepository
}

// NewRoleService creates a new role service
func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{repo: repo}
}

// Grant assigns a role to an account, recording the granting admin.
func (s *RoleService) Grant(ctx context.Context, accountID uuid.UUID, r Role, grantedBy uuid.UUID) (Assignment, error) {
	if !r.Valid() {
		return Assignment{}, fmt.Errorf("unknown role: %s", r)
	}
	assignment, err := s.repo.AssignRole(ctx, Assignment{
		AccountID: accountID,
		Role:      r,
		GrantedBy: grantedBy,
	})
	if err != nil {
		return Assignment{}, fmt.Errorf("failed to assign role: %w", err)
	}
	slog.Info("Role assigned", "accountId", accountID, "role", r, "grantedBy", grantedBy)
	return assignment, nil
}

// Revoke removes one role from an account
func (s *RoleService) Revoke(ctx context.Context, accountID uuid.UUID, r Role) error {
	return s.repo.RemoveRole(ctx, accountID, r)
}

// RevokeAll removes every role an account holds and returns how many
// assignments were removed.
func (s *RoleService) RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error) {
	return s.repo.RemoveAllForAccount(ctx, accountID)
}

// RolesForAccount returns the roles held by an account
func (s *RoleService) RolesForAccount(ctx context.Context, accountID uuid.UUID) ([]Role, error) {
	return s.repo.FindRolesForAccount(ctx, accountID)
}

// AssignmentsForAccount returns the full assignments held by an account
func (s *RoleService) AssignmentsForAccount(ctx context.Context, accountID uuid.UUID) ([]Assignment, error) {
	return s.repo.FindAssignmentsForAccount(ctx, accountID)
}

// EffectiveRole resolves the account's single effective role using the
// fixed precedence admin > staff > student. The second return is false
// when the account holds no role at all.
func (s *RoleService) EffectiveRole(ctx context.Context, accountID uuid.UUID) (Role, bool, error) {
	roles, err := s.repo.FindRolesForAccount(ctx, accountID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load roles: %w", err)
	}
	effective, ok := Effective(roles)
	return effective, ok, nil
}
