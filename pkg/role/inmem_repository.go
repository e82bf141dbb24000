package role

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu          sync.RWMutex
	assignments map[uuid.UUID]map[Role]Assignment // accountID -> role -> Assignment
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		assignments: make(map[uuid.UUID]map[Role]Assignment),
	}
}

// AssignRole creates a new (account, role) assignment.
// The pair is unique; assigning the same role twice is a conflict.
func (r *InMemoryRoleRepository) AssignRole(ctx context.Context, arg Assignment) (Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byRole, ok := r.assignments[arg.AccountID]
	if !ok {
		byRole = make(map[Role]Assignment)
		r.assignments[arg.AccountID] = byRole
	}
	if _, exists := byRole[arg.Role]; exists {
		return Assignment{}, ErrAssignmentExists
	}
	if arg.GrantedAt.IsZero() {
		arg.GrantedAt = time.Now()
	}
	byRole[arg.Role] = arg
	return arg, nil
}

// RemoveRole removes one (account, role) assignment
func (r *InMemoryRoleRepository) RemoveRole(ctx context.Context, accountID uuid.UUID, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byRole, ok := r.assignments[accountID]
	if !ok {
		return ErrAssignmentNotFound
	}
	if _, exists := byRole[role]; !exists {
		return ErrAssignmentNotFound
	}
	delete(byRole, role)
	return nil
}

// RemoveAllForAccount removes every assignment the account holds.
// Removing from an account with no assignments is a no-op, not an error.
func (r *InMemoryRoleRepository) RemoveAllForAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.assignments[accountID]))
	delete(r.assignments, accountID)
	return n, nil
}

// FindRolesForAccount returns the roles held by an account
func (r *InMemoryRoleRepository) FindRolesForAccount(ctx context.Context, accountID uuid.UUID) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byRole := r.assignments[accountID]
	roles := make([]Role, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	return roles, nil
}

// FindAssignmentsForAccount returns the full assignments held by an account
func (r *InMemoryRoleRepository) FindAssignmentsForAccount(ctx context.Context, accountID uuid.UUID) ([]Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byRole := r.assignments[accountID]
	assignments := make([]Assignment, 0, len(byRole))
	for _, a := range byRole {
		assignments = append(assignments, a)
	}
	return assignments, nil
}
