package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func userColumns() []string {
	return []string{"id", "username", "password_hash", "created_at", "updated_at"}
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, username, password_hash, created_at, updated_at").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id.String(), "alice", "hash", now, now))

	user, err := repo.GetByID(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	id := uuid.New()

	mock.ExpectQuery("SELECT").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserReadRepository_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id.String(), "bob", "hash", now, now))

	user, err := repo.GetByUsername(context.Background(), "bob")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	got, err := repo.Save(context.Background(), "alice", "hash")
	assert.NoError(t, err)
	assert.Equal(t, id, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save_DuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Save(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserWriteRepository_Update_PartialFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()
	username := "alice2"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(username, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), id, &username, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()
	username := "ghost"

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), id, &username, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), id))
}

func TestUserWriteRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectExec("DELETE FROM users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserWriteRepository_Delete_Referenced(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectExec("DELETE FROM users").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "subscriptions_user_id_fkey"})

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReferenced)
}
