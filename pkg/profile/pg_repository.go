package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresProfileRepository implements ProfileRepository backed by PostgreSQL
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgreSQL-based profile repository
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, params CreateProfileParams) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, full_name, phone, address, picture_url, created_at, last_modified_at
	`, params.AccountID, params.Email, params.FullName, params.Phone, params.Address)

	p, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Profile{}, ErrProfileExists
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, accountID uuid.UUID) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, phone, address, picture_url, created_at, last_modified_at
		FROM profiles
		WHERE id = $1 AND deleted_at IS NULL
	`, accountID)

	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

func (r *PostgresProfileRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, phone, address, picture_url, created_at, last_modified_at
		FROM profiles
		WHERE deleted_at IS NULL
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *PostgresProfileRepository) UpdatePictureURL(ctx context.Context, accountID uuid.UUID, pictureURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles SET picture_url = $2, last_modified_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, accountID, pictureURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) DeleteProfile(ctx context.Context, accountID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM profiles WHERE id = $1
	`, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	var phone, address, pictureURL *string
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &phone, &address, &pictureURL, &p.CreatedAt, &p.LastModifiedAt)
	if err != nil {
		return Profile{}, err
	}
	if phone != nil {
		p.Phone = *phone
	}
	if address != nil {
		p.Address = *address
	}
	if pictureURL != nil {
		p.PictureURL = *pictureURL
	}
	return p, nil
}
