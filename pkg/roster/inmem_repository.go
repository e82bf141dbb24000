package roster

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRosterRepository implements RosterRepository using in-memory storage
type InMemoryRosterRepository struct {
	mu                sync.RWMutex
	students          map[uuid.UUID]StudentRecord
	staff             map[uuid.UUID]StaffRecord
	studentsByAccount map[uuid.UUID]uuid.UUID
	staffByAccount    map[uuid.UUID]uuid.UUID
	studentNumbers    map[string]uuid.UUID
	employeeNumbers   map[string]uuid.UUID
}

// NewInMemoryRosterRepository creates a new in-memory roster repository
func NewInMemoryRosterRepository() *InMemoryRosterRepository {
	return &InMemoryRosterRepository{
		students:          make(map[uuid.UUID]StudentRecord),
		staff:             make(map[uuid.UUID]StaffRecord),
		studentsByAccount: make(map[uuid.UUID]uuid.UUID),
		staffByAccount:    make(map[uuid.UUID]uuid.UUID),
		studentNumbers:    make(map[string]uuid.UUID),
		employeeNumbers:   make(map[string]uuid.UUID),
	}
}

// CreateStudent creates a new student record
func (r *InMemoryRosterRepository) CreateStudent(ctx context.Context, params CreateStudentParams) (StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.studentNumbers[params.StudentNumber]; exists {
		return StudentRecord{}, ErrStudentNumberTaken
	}
	if _, exists := r.studentsByAccount[params.AccountID]; exists {
		return StudentRecord{}, ErrRecordExists
	}

	record := StudentRecord{
		ID:               uuid.New(),
		AccountID:        params.AccountID,
		StudentNumber:    params.StudentNumber,
		Course:           params.Course,
		Semester:         params.Semester,
		EmergencyContact: params.EmergencyContact,
		RegisteredBy:     params.RegisteredBy,
		CreatedAt:        time.Now(),
	}
	r.students[record.ID] = record
	r.studentsByAccount[record.AccountID] = record.ID
	r.studentNumbers[record.StudentNumber] = record.ID
	return record, nil
}

// GetStudent returns a student record by its ID
func (r *InMemoryRosterRepository) GetStudent(ctx context.Context, id uuid.UUID) (StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.students[id]
	if !ok {
		return StudentRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// GetStudentByAccount returns the student record owned by an account
func (r *InMemoryRosterRepository) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.studentsByAccount[accountID]
	if !ok {
		return StudentRecord{}, ErrRecordNotFound
	}
	return r.students[id], nil
}

// DeleteStudentByAccount removes the student record owned by an account
func (r *InMemoryRosterRepository) DeleteStudentByAccount(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.studentsByAccount[accountID]
	if !ok {
		return ErrRecordNotFound
	}
	record := r.students[id]
	delete(r.studentNumbers, record.StudentNumber)
	delete(r.studentsByAccount, accountID)
	delete(r.students, id)
	return nil
}

// CountStudents returns the number of student records
func (r *InMemoryRosterRepository) CountStudents(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.students)), nil
}

// CreateStaff creates a new staff record
func (r *InMemoryRosterRepository) CreateStaff(ctx context.Context, params CreateStaffParams) (StaffRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.employeeNumbers[params.EmployeeNumber]; exists {
		return StaffRecord{}, ErrEmployeeNumberTaken
	}
	if _, exists := r.staffByAccount[params.AccountID]; exists {
		return StaffRecord{}, ErrRecordExists
	}

	record := StaffRecord{
		ID:             uuid.New(),
		AccountID:      params.AccountID,
		EmployeeNumber: params.EmployeeNumber,
		Department:     params.Department,
		Position:       params.Position,
		RegisteredBy:   params.RegisteredBy,
		CreatedAt:      time.Now(),
	}
	r.staff[record.ID] = record
	r.staffByAccount[record.AccountID] = record.ID
	r.employeeNumbers[record.EmployeeNumber] = record.ID
	return record, nil
}

// GetStaff returns a staff record by its ID
func (r *InMemoryRosterRepository) GetStaff(ctx context.Context, id uuid.UUID) (StaffRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.staff[id]
	if !ok {
		return StaffRecord{}, ErrRecordNotFound
	}
	return record, nil
}

// GetStaffByAccount returns the staff record owned by an account
func (r *InMemoryRosterRepository) GetStaffByAccount(ctx context.Context, accountID uuid.UUID) (StaffRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.staffByAccount[accountID]
	if !ok {
		return StaffRecord{}, ErrRecordNotFound
	}
	return r.staff[id], nil
}

// DeleteStaffByAccount removes the staff record owned by an account
func (r *InMemoryRosterRepository) DeleteStaffByAccount(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.staffByAccount[accountID]
	if !ok {
		return ErrRecordNotFound
	}
	record := r.staff[id]
	delete(r.employeeNumbers, record.EmployeeNumber)
	delete(r.staffByAccount, accountID)
	delete(r.staff, id)
	return nil
}

// CountStaff returns the number of staff records
func (r *InMemoryRosterRepository) CountStaff(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.staff)), nil
}
