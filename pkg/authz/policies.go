package authz

import "github.com/campuskit/campus-portal/pkg/role"

// DefaultPolicySet builds the portal's row policies. Shapes:
//   - public readability on reference tables,
//   - student self-access on rows they own,
//   - staff/admin override on most domain tables,
//   - admin-only destructive operations on account-adjacent tables,
//   - time-bounded QR visibility for students.
func DefaultPolicySet() *PolicySet {
	staffOrAdmin := HasRole(role.RoleStaff, role.RoleAdmin)
	adminOnly := HasRole(role.RoleAdmin)

	set := NewPolicySet()

	// Reference tables are readable by anyone, signed in or not.
	for _, table := range []Table{TableCourses, TableCourseCatalog, TableExams, TableClassSchedules} {
		set.Add(Policy{
			Name:       "public read " + string(table),
			Table:      table,
			Operations: []Operation{OpSelect},
			Allow:      AnyCaller,
		})
	}

	// QR codes: anyone may list them, but students only see rows that are
	// permanent or not yet expired.
	set.Add(Policy{
		Name:       "qr codes visible while valid",
		Table:      TableQRCodes,
		Operations: []Operation{OpSelect},
		Allow:      And(Authenticated, NotExpired),
	})

	// Students read and append their own rows.
	for _, table := range []Table{TableAttendance, TableExamResults, TableCertificates} {
		set.Add(Policy{
			Name:       "student self access " + string(table),
			Table:      table,
			Operations: []Operation{OpSelect, OpInsert},
			Allow:      RoleOwnsRow(role.RoleStudent),
		})
	}

	// Students see their own profile and student record, and notifications
	// addressed to them.
	for _, table := range []Table{TableProfiles, TableStudents, TableNotifications, TableSessions} {
		set.Add(Policy{
			Name:       "owner read " + string(table),
			Table:      table,
			Operations: []Operation{OpSelect},
			Allow:      OwnsRow,
		})
	}

	// Staff and admin operate on domain tables regardless of ownership.
	for _, table := range []Table{
		TableCourses, TableCourseCatalog, TableExams, TableExamResults,
		TableAttendance, TableQRCodes, TableCertificates, TableNotifications,
		TableClassSchedules, TableSessions, TableProfiles,
	} {
		set.Add(Policy{
			Name:       "staff override " + string(table),
			Table:      table,
			Operations: AllOperations,
			Allow:      staffOrAdmin,
		})
	}

	// Account-adjacent tables: staff may read, only admin mutates. Role
	// assignments in particular are written solely by the provisioning
	// workflows, which run with an admin caller.
	for _, table := range []Table{TableStudents, TableStaff, TableRoleAssignments} {
		set.Add(Policy{
			Name:       "staff read " + string(table),
			Table:      table,
			Operations: []Operation{OpSelect},
			Allow:      staffOrAdmin,
		})
		set.Add(Policy{
			Name:       "admin manage " + string(table),
			Table:      table,
			Operations: AllOperations,
			Allow:      adminOnly,
		})
	}

	return set
}
