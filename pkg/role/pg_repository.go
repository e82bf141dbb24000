package role

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRoleRepository implements RoleRepository backed by PostgreSQL
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgreSQL-based role repository
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

func (r *PostgresRoleRepository) AssignRole(ctx context.Context, arg Assignment) (Assignment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO role_assignments (account_id, role, granted_by)
		VALUES ($1, $2, $3)
		RETURNING account_id, role, granted_by, granted_at
	`, arg.AccountID, arg.Role, arg.GrantedBy)

	var out Assignment
	err := row.Scan(&out.AccountID, &out.Role, &out.GrantedBy, &out.GrantedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Assignment{}, ErrAssignmentExists
		}
		return Assignment{}, err
	}
	return out, nil
}

func (r *PostgresRoleRepository) RemoveRole(ctx context.Context, accountID uuid.UUID, role Role) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM role_assignments WHERE account_id = $1 AND role = $2
	`, accountID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (r *PostgresRoleRepository) RemoveAllForAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM role_assignments WHERE account_id = $1
	`, accountID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRoleRepository) FindRolesForAccount(ctx context.Context, accountID uuid.UUID) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role FROM role_assignments WHERE account_id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PostgresRoleRepository) FindAssignmentsForAccount(ctx context.Context, accountID uuid.UUID) ([]Assignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT account_id, role, granted_by, granted_at
		FROM role_assignments
		WHERE account_id = $1
		ORDER BY granted_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []Assignment{}
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.AccountID, &a.Role, &a.GrantedBy, &a.GrantedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
