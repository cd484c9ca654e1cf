package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormRepository_CreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &User{ExternalID: "user_1", Email: "ada@example.com", FirstName: strPtr("Ada")}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byExternal, err := repo.FindByExternalID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byExternal.ID)
	assert.Equal(t, "Ada", *byExternal.FirstName)
	assert.Nil(t, byExternal.LastName)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "user_1", byID.ExternalID)
}

func TestGormRepository_FindMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByExternalID(context.Background(), "nobody")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGormRepository_CreateDuplicateExternalID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{ExternalID: "user_1", Email: "a@example.com"}))
	err := repo.Create(ctx, &User{ExternalID: "user_1", Email: "b@example.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestGormRepository_UpdateWritesOnlyStagedColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &User{ExternalID: "user_1", Email: "a@example.com", FirstName: strPtr("Ada"), LastName: strPtr("Lovelace")}
	require.NoError(t, repo.Create(ctx, u))
	before := u.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := repo.Update(ctx, u.ID, UserChanges{FirstName: strPtr("Augusta")})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", *updated.FirstName)
	assert.Equal(t, "Lovelace", *updated.LastName)
	assert.Equal(t, "a@example.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(before))
}

func TestGormRepository_UpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Update(context.Background(), uuid.New(), UserChanges{Email: strPtr("x@example.com")})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGormRepository_DeleteAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, ext := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repo.Create(ctx, &User{ExternalID: ext, Email: ext + "@example.com"}))
	}

	users, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	require.NoError(t, repo.Delete(ctx, users[0].ID))
	assert.True(t, errors.Is(repo.Delete(ctx, users[0].ID), common.ErrNotFound))

	_, total, err = repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func newMockPostgresRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGORMRepository(db, &config.Config{DBQueryTimeout: time.Second}), mock
}

func TestGormRepository_Postgres_UniqueViolationIsConflict(t *testing.T) {
	repo, mock := newMockPostgresRepo(t)

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_external_id"})

	err := repo.Create(context.Background(), &User{ExternalID: "user_1", Email: "a@example.com"})
	assert.True(t, errors.Is(err, common.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_Postgres_TimeoutIsUnavailable(t *testing.T) {
	repo, mock := newMockPostgresRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE external_id = \$1`).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.FindByExternalID(context.Background(), "user_1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrServiceUnavailable))

	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
