package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRosterRepository implements RosterRepository backed by PostgreSQL
type PostgresRosterRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRosterRepository creates a new PostgreSQL-based roster repository
func NewPostgresRosterRepository(pool *pgxpool.Pool) *PostgresRosterRepository {
	return &PostgresRosterRepository{pool: pool}
}

func (r *PostgresRosterRepository) CreateStudent(ctx context.Context, params CreateStudentParams) (StudentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO students (account_id, student_number, course, semester, emergency_contact, registered_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, account_id, student_number, course, semester, emergency_contact, registered_by, created_at
	`, params.AccountID, params.StudentNumber, params.Course, params.Semester, params.EmergencyContact, params.RegisteredBy)

	record, err := scanStudent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "students_account_id_key":
				return StudentRecord{}, ErrRecordExists
			default:
				return StudentRecord{}, ErrStudentNumberTaken
			}
		}
		return StudentRecord{}, err
	}
	return record, nil
}

func (r *PostgresRosterRepository) GetStudent(ctx context.Context, id uuid.UUID) (StudentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, student_number, course, semester, emergency_contact, registered_by, created_at
		FROM students WHERE id = $1
	`, id)
	record, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StudentRecord{}, ErrRecordNotFound
	}
	return record, err
}

func (r *PostgresRosterRepository) GetStudentByAccount(ctx context.Context, accountID uuid.UUID) (StudentRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, student_number, course, semester, emergency_contact, registered_by, created_at
		FROM students WHERE account_id = $1
	`, accountID)
	record, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StudentRecord{}, ErrRecordNotFound
	}
	return record, err
}

func (r *PostgresRosterRepository) DeleteStudentByAccount(ctx context.Context, accountID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRosterRepository) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM students`).Scan(&n)
	return n, err
}

func (r *PostgresRosterRepository) CreateStaff(ctx context.Context, params CreateStaffParams) (StaffRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff (account_id, employee_number, department, position, registered_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, account_id, employee_number, department, position, registered_by, created_at
	`, params.AccountID, params.EmployeeNumber, params.Department, params.Position, params.RegisteredBy)

	record, err := scanStaff(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "staff_account_id_key":
				return StaffRecord{}, ErrRecordExists
			default:
				return StaffRecord{}, ErrEmployeeNumberTaken
			}
		}
		return StaffRecord{}, err
	}
	return record, nil
}

func (r *PostgresRosterRepository) GetStaff(ctx context.Context, id uuid.UUID) (StaffRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, employee_number, department, position, registered_by, created_at
		FROM staff WHERE id = $1
	`, id)
	record, err := scanStaff(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffRecord{}, ErrRecordNotFound
	}
	return record, err
}

func (r *PostgresRosterRepository) GetStaffByAccount(ctx context.Context, accountID uuid.UUID) (StaffRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, employee_number, department, position, registered_by, created_at
		FROM staff WHERE account_id = $1
	`, accountID)
	record, err := scanStaff(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffRecord{}, ErrRecordNotFound
	}
	return record, err
}

func (r *PostgresRosterRepository) DeleteStaffByAccount(ctx context.Context, accountID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRosterRepository) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM staff`).Scan(&n)
	return n, err
}

func scanStudent(row pgx.Row) (StudentRecord, error) {
	var record StudentRecord
	var emergencyContact *string
	err := row.Scan(&record.ID, &record.AccountID, &record.StudentNumber, &record.Course,
		&record.Semester, &emergencyContact, &record.RegisteredBy, &record.CreatedAt)
	if err != nil {
		return StudentRecord{}, err
	}
	if emergencyContact != nil {
		record.EmergencyContact = *emergencyContact
	}
	return record, nil
}

func scanStaff(row pgx.Row) (StaffRecord, error) {
	var record StaffRecord
	err := row.Scan(&record.ID, &record.AccountID, &record.EmployeeNumber, &record.Department,
		&record.Position, &record.RegisteredBy, &record.CreatedAt)
	if err != nil {
		return StaffRecord{}, err
	}
	return record, nil
}
