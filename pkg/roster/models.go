package roster

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStudentNumberTaken  = errors.New("student number already in use")
	ErrEmployeeNumberTaken = errors.New("employee number already in use")
	ErrRecordExists        = errors.New("account already has a record")
	ErrRecordNotFound      = errors.New("record not found")
)

// StudentRecord carries the student-specific attributes for an account.
// At most one exists per account.
type StudentRecord struct {
	ID               uuid.UUID `json:"id"`
	AccountID        uuid.UUID `json:"account_id"`
	StudentNumber    string    `json:"student_number"`
	Course           string    `json:"course"`
	Semester         int       `json:"semester"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	RegisteredBy     uuid.UUID `json:"registered_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// StaffRecord carries the staff-specific attributes for an account.
// At most one exists per account.
type StaffRecord struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	EmployeeNumber string    `json:"employee_number"`
	Department     string    `json:"department"`
	Position       string    `json:"position"`
	RegisteredBy   uuid.UUID `json:"registered_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateStudentParams contains parameters for creating a student record
type CreateStudentParams struct {
	AccountID        uuid.UUID
	StudentNumber    string
	Course           string
	Semester         int
	EmergencyContact string
	RegisteredBy     uuid.UUID
}

// CreateStaffParams contains parameters for creating a staff record
type CreateStaffParams struct {
	AccountID      uuid.UUID
	EmployeeNumber string
	Department     string
	Position       string
	RegisteredBy   uuid.UUID
}

// RosterRepository defines the persistence operations for student and
// staff records. Uniqueness of student/employee numbers and of the
// account back-reference is enforced by the store, not by callers.
type RosterRepository interface {
	CreateStudent(ctx context.Context, params CreateStudentParams) (StudentRecord, error)
	GetStudent(ctx context.Context, id uuid.UUID) (StudentRecord, error)
	GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (StudentRecord, error)
	DeleteStudentByAccount(ctx context.Context, accountID uuid.UUID) error
	CountStudents(ctx context.Context) (int64, error)

	CreateStaff(ctx context.Context, params CreateStaffParams) (StaffRecord, error)
	GetStaff(ctx context.Context, id uuid.UUID) (StaffRecord, error)
	GetStaffByAccount(ctx context.Context, accountID uuid.UUID) (StaffRecord, error)
	DeleteStaffByAccount(ctx context.Context, accountID uuid.UUID) error
	CountStaff(ctx context.Context) (int64, error)
}
