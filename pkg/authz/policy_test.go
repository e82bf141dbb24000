package authz

import (
	"testing"
	"time"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func studentCaller(id uuid.UUID) Caller {
	return Caller{AccountID: id, Role: role.RoleStudent, Authenticated: true}
}

func staffCaller() Caller {
	return Caller{AccountID: uuid.New(), Role: role.RoleStaff, Authenticated: true}
}

func adminCaller() Caller {
	return Caller{AccountID: uuid.New(), Role: role.RoleAdmin, Authenticated: true}
}

func TestDefaultDeny(t *testing.T) {
	set := NewPolicySet()
	allowed := set.Authorize(Request{
		Caller:    adminCaller(),
		Table:     TableCourses,
		Operation: OpSelect,
	})
	assert.False(t, allowed, "empty set must deny everything")
}

func TestPublicReadability(t *testing.T) {
	set := DefaultPolicySet()

	// Unauthenticated caller can read courses but not write them.
	anon := Caller{}
	assert.True(t, set.Authorize(Request{Caller: anon, Table: TableCourses, Operation: OpSelect}))
	assert.False(t, set.Authorize(Request{Caller: anon, Table: TableCourses, Operation: OpInsert}))
	assert.True(t, set.Authorize(Request{Caller: anon, Table: TableExams, Operation: OpSelect}))
}

func TestStudentSelfAccessOrCombination(t *testing.T) {
	set := DefaultPolicySet()
	ownAccount := uuid.New()
	caller := studentCaller(ownAccount)

	ownRow := &Row{OwnerAccountID: ownAccount}
	otherRow := &Row{OwnerAccountID: uuid.New()}

	// Student reads attendance rows they own, and only those.
	assert.True(t, set.Authorize(Request{Caller: caller, Table: TableAttendance, Operation: OpSelect, Row: ownRow}))
	assert.False(t, set.Authorize(Request{Caller: caller, Table: TableAttendance, Operation: OpSelect, Row: otherRow}))

	// Insert follows the same ownership rule.
	assert.True(t, set.Authorize(Request{Caller: caller, Table: TableAttendance, Operation: OpInsert, Row: ownRow}))
	assert.False(t, set.Authorize(Request{Caller: caller, Table: TableAttendance, Operation: OpInsert, Row: otherRow}))

	// Staff is allowed unconditionally on the same rows (OR across policies).
	assert.True(t, set.Authorize(Request{Caller: staffCaller(), Table: TableAttendance, Operation: OpSelect, Row: otherRow}))
	assert.True(t, set.Authorize(Request{Caller: staffCaller(), Table: TableAttendance, Operation: OpDelete, Row: otherRow}))
}

func TestNoEffectiveRoleDenied(t *testing.T) {
	set := DefaultPolicySet()

	// Authenticated but holding no role: denied by every role-gated policy.
	caller := Caller{AccountID: uuid.New(), Authenticated: true}
	assert.False(t, set.Authorize(Request{Caller: caller, Table: TableAttendance, Operation: OpSelect, Row: &Row{OwnerAccountID: uuid.New()}}))
	assert.False(t, set.Authorize(Request{Caller: caller, Table: TableStudents, Operation: OpDelete}))

	// Public tables are still readable.
	assert.True(t, set.Authorize(Request{Caller: caller, Table: TableCourses, Operation: OpSelect}))
}

func TestAdminOnlyDestructiveOperations(t *testing.T) {
	set := DefaultPolicySet()

	for _, table := range []Table{TableStudents, TableStaff, TableRoleAssignments} {
		assert.False(t, set.Authorize(Request{Caller: staffCaller(), Table: table, Operation: OpDelete}),
			"staff must not delete on %s", table)
		assert.True(t, set.Authorize(Request{Caller: adminCaller(), Table: table, Operation: OpDelete}),
			"admin must delete on %s", table)
		// Staff can still read.
		assert.True(t, set.Authorize(Request{Caller: staffCaller(), Table: table, Operation: OpSelect}))
	}
}

func TestQRCodeTimeBoundedVisibility(t *testing.T) {
	set := DefaultPolicySet()
	caller := studentCaller(uuid.New())
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	// Permanent QR codes are always visible.
	assert.True(t, set.Authorize(Request{
		Caller: caller, Table: TableQRCodes, Operation: OpSelect,
		Row: &Row{Permanent: true, ExpiresAt: &past}, Now: now,
	}))

	// Unexpired codes are visible, expired ones are not.
	assert.True(t, set.Authorize(Request{
		Caller: caller, Table: TableQRCodes, Operation: OpSelect,
		Row: &Row{ExpiresAt: &future}, Now: now,
	}))
	assert.False(t, set.Authorize(Request{
		Caller: caller, Table: TableQRCodes, Operation: OpSelect,
		Row: &Row{ExpiresAt: &past}, Now: now,
	}))

	// Staff sees expired codes through the override policy.
	assert.True(t, set.Authorize(Request{
		Caller: staffCaller(), Table: TableQRCodes, Operation: OpSelect,
		Row: &Row{ExpiresAt: &past}, Now: now,
	}))
}
