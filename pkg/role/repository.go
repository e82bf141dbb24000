package role

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAssignmentExists   = errors.New("role already assigned to account")
	ErrAssignmentNotFound = errors.New("role assignment not found")
)

// RoleRepository defines the persistence operations for role assignments
type RoleRepository interface {
	AssignRole(ctx context.Context, arg Assignment) (Assignment, error)
	RemoveRole(ctx context.Context, accountID uuid.UUID, r Role) error
	RemoveAllForAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	FindRolesForAccount(ctx context.Context, accountID uuid.UUID) ([]Role, error)
	FindAssignmentsForAccount(ctx context.Context, accountID uuid.UUID) ([]Assignment, error)
}
