package roster

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/campuskit/campus-portal/pkg/role"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "portal_db"
	dbUser := "portal"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "portal_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresRosterRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresRosterRepository(pool)

	accountID := uuid.New()
	adminID := uuid.New()

	t.Run("create and get student", func(t *testing.T) {
		record, err := repo.CreateStudent(ctx, CreateStudentParams{
			AccountID:     accountID,
			StudentNumber: "STU20250001",
			Course:        "CS",
			Semester:      1,
			RegisteredBy:  adminID,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, record.ID)

		got, err := repo.GetStudent(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, accountID, got.AccountID)
		assert.Equal(t, "STU20250001", got.StudentNumber)
		assert.Empty(t, got.EmergencyContact)

		byAccount, err := repo.GetStudentByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, byAccount.ID)
	})

	t.Run("duplicate student number", func(t *testing.T) {
		_, err := repo.CreateStudent(ctx, CreateStudentParams{
			AccountID:     uuid.New(),
			StudentNumber: "STU20250001",
			Course:        "EE",
			Semester:      2,
			RegisteredBy:  adminID,
		})
		assert.ErrorIs(t, err, ErrStudentNumberTaken)
	})

	t.Run("duplicate account", func(t *testing.T) {
		_, err := repo.CreateStudent(ctx, CreateStudentParams{
			AccountID:     accountID,
			StudentNumber: "STU20250099",
			Course:        "EE",
			Semester:      2,
			RegisteredBy:  adminID,
		})
		assert.ErrorIs(t, err, ErrRecordExists)
	})

	t.Run("delete student by account", func(t *testing.T) {
		require.NoError(t, repo.DeleteStudentByAccount(ctx, accountID))
		assert.ErrorIs(t, repo.DeleteStudentByAccount(ctx, accountID), ErrRecordNotFound)

		n, err := repo.CountStudents(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("staff round trip", func(t *testing.T) {
		staffAccount := uuid.New()
		record, err := repo.CreateStaff(ctx, CreateStaffParams{
			AccountID:      staffAccount,
			EmployeeNumber: "EMP001",
			Department:     "Mathematics",
			Position:       "Lecturer",
			RegisteredBy:   adminID,
		})
		require.NoError(t, err)

		got, err := repo.GetStaff(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "EMP001", got.EmployeeNumber)

		_, err = repo.CreateStaff(ctx, CreateStaffParams{
			AccountID:      uuid.New(),
			EmployeeNumber: "EMP001",
			Department:     "Physics",
			Position:       "Lecturer",
			RegisteredBy:   adminID,
		})
		assert.ErrorIs(t, err, ErrEmployeeNumberTaken)

		require.NoError(t, repo.DeleteStaffByAccount(ctx, staffAccount))
	})

	t.Run("role repository on same database", func(t *testing.T) {
		roleRepo := role.NewPostgresRoleRepository(pool)

		_, err := roleRepo.AssignRole(ctx, role.Assignment{
			AccountID: accountID,
			Role:      role.RoleStudent,
			GrantedBy: adminID,
		})
		require.NoError(t, err)

		_, err = roleRepo.AssignRole(ctx, role.Assignment{
			AccountID: accountID,
			Role:      role.RoleStudent,
			GrantedBy: adminID,
		})
		assert.ErrorIs(t, err, role.ErrAssignmentExists)

		roles, err := roleRepo.FindRolesForAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, []role.Role{role.RoleStudent}, roles)

		removed, err := roleRepo.RemoveAllForAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})
}
