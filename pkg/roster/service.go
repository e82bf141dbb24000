package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/google/uuid"
)

// RosterService provides student/staff record operations
type RosterService struct {
	repo RosterRepository
}

// NewRosterService creates a new roster service
func NewRosterService(repo RosterRepository) *RosterService {
	return &RosterService{repo: repo}
}

// CreateStudent creates a student record for an account
func (s *RosterService) CreateStudent(ctx context.Context, params CreateStudentParams) (StudentRecord, error) {
	if params.StudentNumber == "" {
		return StudentRecord{}, fmt.Errorf("student number is required")
	}
	if params.Course == "" {
		return StudentRecord{}, fmt.Errorf("course is required")
	}
	if params.Semester < 1 {
		return StudentRecord{}, fmt.Errorf("semester must be positive")
	}
	return s.repo.CreateStudent(ctx, params)
}

// CreateStaff creates a staff record for an account
func (s *RosterService) CreateStaff(ctx context.Context, params CreateStaffParams) (StaffRecord, error) {
	if params.EmployeeNumber == "" {
		return StaffRecord{}, fmt.Errorf("employee number is required")
	}
	if params.Department == "" {
		return StaffRecord{}, fmt.Errorf("department is required")
	}
	if params.Position == "" {
		return StaffRecord{}, fmt.Errorf("position is required")
	}
	return s.repo.CreateStaff(ctx, params)
}

// ResolveAccountID maps a target reference to the owning account ID.
// The reference may be a student/staff record ID or already an account ID;
// record lookup is tried first, guided by the role hint.
func (s *RosterService) ResolveAccountID(ctx context.Context, targetRef uuid.UUID, hint role.Role) (uuid.UUID, error) {
	switch hint {
	case role.RoleStudent:
		if record, err := s.repo.GetStudent(ctx, targetRef); err == nil {
			return record.AccountID, nil
		}
		if record, err := s.repo.GetStudentByAccount(ctx, targetRef); err == nil {
			return record.AccountID, nil
		}
	case role.RoleStaff:
		if record, err := s.repo.GetStaff(ctx, targetRef); err == nil {
			return record.AccountID, nil
		}
		if record, err := s.repo.GetStaffByAccount(ctx, targetRef); err == nil {
			return record.AccountID, nil
		}
	}
	// The reference may be an account ID with no surviving record; callers
	// deleting best-effort still want the account cleaned.
	return targetRef, nil
}

// DeleteByAccount removes the role-specific record owned by an account.
// A missing record is reported as ErrRecordNotFound so callers can treat
// repeats as no-ops.
func (s *RosterService) DeleteByAccount(ctx context.Context, accountID uuid.UUID, hint role.Role) error {
	switch hint {
	case role.RoleStudent:
		return s.repo.DeleteStudentByAccount(ctx, accountID)
	case role.RoleStaff:
		return s.repo.DeleteStaffByAccount(ctx, accountID)
	default:
		return fmt.Errorf("unknown record type: %s", hint)
	}
}

// HasRecord reports whether an account still owns a record of the given kind
func (s *RosterService) HasRecord(ctx context.Context, accountID uuid.UUID, kind role.Role) (bool, error) {
	var err error
	switch kind {
	case role.RoleStudent:
		_, err = s.repo.GetStudentByAccount(ctx, accountID)
	case role.RoleStaff:
		_, err = s.repo.GetStaffByAccount(ctx, accountID)
	default:
		return false, fmt.Errorf("unknown record type: %s", kind)
	}
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetStudent returns a student record by ID
func (s *RosterService) GetStudent(ctx context.Context, id uuid.UUID) (StudentRecord, error) {
	return s.repo.GetStudent(ctx, id)
}

// GetStaff returns a staff record by ID
func (s *RosterService) GetStaff(ctx context.Context, id uuid.UUID) (StaffRecord, error) {
	return s.repo.GetStaff(ctx, id)
}

// StudentAccountID resolves a caller account to its student record ID,
// used by self-access authorization checks.
func (s *RosterService) StudentAccountID(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	record, err := s.repo.GetStudentByAccount(ctx, accountID)
	if errors.Is(err, ErrRecordNotFound) {
		return uuid.Nil, err
	}
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}
