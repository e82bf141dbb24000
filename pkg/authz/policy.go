package authz

import (
	"time"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/google/uuid"
)

// Table identifies a domain table guarded by the policy layer.
type Table string

const (
	TableCourses         Table = "courses"
	TableCourseCatalog   Table = "course_catalog"
	TableExams           Table = "exams"
	TableExamResults     Table = "exam_results"
	TableAttendance      Table = "attendance"
	TableQRCodes         Table = "qr_codes"
	TableCertificates    Table = "certificates"
	TableNotifications   Table = "notifications"
	TableClassSchedules  Table = "class_schedules"
	TableSessions        Table = "sessions"
	TableProfiles        Table = "profiles"
	TableStudents        Table = "students"
	TableStaff           Table = "staff"
	TableRoleAssignments Table = "role_assignments"
)

// Operation is the data access being attempted.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// AllOperations covers every operation for staff/admin override policies.
var AllOperations = []Operation{OpSelect, OpInsert, OpUpdate, OpDelete}

// Caller is the authenticated principal a request runs as. Role is the
// effective role, resolved once per request via role.Effective; it is
// empty when the account holds no role. A zero Caller is anonymous.
type Caller struct {
	AccountID     uuid.UUID
	Role          role.Role
	Authenticated bool
}

// Row carries the ownership and visibility attributes of the row under
// access, for operations that target a concrete row.
type Row struct {
	// OwnerAccountID is the account the row belongs to (uuid.Nil if the
	// table has no ownership column).
	OwnerAccountID uuid.UUID
	// Permanent marks rows visible regardless of expiry (QR codes).
	Permanent bool
	// ExpiresAt bounds row visibility in time when set.
	ExpiresAt *time.Time
}

// Request is one authorization question: may Caller perform Operation on
// Table (optionally on Row) at time Now?
type Request struct {
	Caller    Caller
	Table     Table
	Operation Operation
	Row       *Row
	Now       time.Time
}

// Predicate decides a single policy. Predicates must be pure: no I/O, no
// store access; everything they need arrives in the Request.
type Predicate func(Request) bool

// Policy grants an operation set on one table when its predicate holds.
type Policy struct {
	Name       string
	Table      Table
	Operations []Operation
	Allow      Predicate
}

func (p Policy) covers(table Table, op Operation) bool {
	if p.Table != table {
		return false
	}
	for _, o := range p.Operations {
		if o == op {
			return true
		}
	}
	return false
}

// PolicySet evaluates requests against its policies. Policies combine
// with logical OR; a request with no matching policy is denied.
type PolicySet struct {
	policies []Policy
}

// NewPolicySet creates an empty policy set
func NewPolicySet(policies ...Policy) *PolicySet {
	return &PolicySet{policies: policies}
}

// Add appends policies to the set
func (s *PolicySet) Add(policies ...Policy) {
	s.policies = append(s.policies, policies...)
}

// Authorize returns true if any policy for (table, operation) allows the
// request. The effective role is taken as given on the caller; it is not
// re-resolved per policy.
func (s *PolicySet) Authorize(req Request) bool {
	if req.Now.IsZero() {
		req.Now = time.Now()
	}
	for _, p := range s.policies {
		if !p.covers(req.Table, req.Operation) {
			continue
		}
		if p.Allow(req) {
			return true
		}
	}
	return false
}

// Reusable predicates

// AnyCaller allows everyone, including unauthenticated callers.
func AnyCaller(Request) bool { return true }

// Authenticated allows any resolved caller.
func Authenticated(req Request) bool { return req.Caller.Authenticated }

// HasRole allows callers whose effective role is one of the given roles.
func HasRole(roles ...role.Role) Predicate {
	return func(req Request) bool {
		if !req.Caller.Authenticated {
			return false
		}
		for _, r := range roles {
			if req.Caller.Role == r {
				return true
			}
		}
		return false
	}
}

// OwnsRow allows callers accessing a row they own. Requests without row
// context are denied; ownership cannot be presumed.
func OwnsRow(req Request) bool {
	if !req.Caller.Authenticated || req.Row == nil {
		return false
	}
	return req.Row.OwnerAccountID != uuid.Nil && req.Row.OwnerAccountID == req.Caller.AccountID
}

// RoleOwnsRow combines a role requirement with row ownership.
func RoleOwnsRow(r role.Role) Predicate {
	return func(req Request) bool {
		return req.Caller.Role == r && OwnsRow(req)
	}
}

// NotExpired gates row visibility by the permanent flag or an expiry
// timestamp compared against the request time.
func NotExpired(req Request) bool {
	if req.Row == nil {
		return false
	}
	if req.Row.Permanent {
		return true
	}
	return req.Row.ExpiresAt != nil && req.Row.ExpiresAt.After(req.Now)
}

// And combines predicates conjunctively.
func And(preds ...Predicate) Predicate {
	return func(req Request) bool {
		for _, p := range preds {
			if !p(req) {
				return false
			}
		}
		return true
	}
}
