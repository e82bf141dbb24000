package role

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles an account can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// precedence orders roles for effective-role resolution. Higher wins.
var precedence = map[Role]int{
	RoleStudent: 1,
	RoleStaff:   2,
	RoleAdmin:   3,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := precedence[r]
	return ok
}

// ParseRole converts a string into a Role, rejecting anything outside the
// closed enumeration.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Effective resolves the single highest-precedence role among those held.
// Returns false if the account holds no valid role.
func Effective(roles []Role) (Role, bool) {
	var best Role
	bestRank := 0
	for _, r := range roles {
		if rank, ok := precedence[r]; ok && rank > bestRank {
			best = r
			bestRank = rank
		}
	}
	return best, bestRank > 0
}

// Assignment represents one (account, role) pair.
// The pair is unique; an account may hold any number of distinct roles.
type Assignment struct {
	AccountID uuid.UUID `json:"account_id"`
	Role      Role      `json:"role"`
	GrantedBy uuid.UUID `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}
