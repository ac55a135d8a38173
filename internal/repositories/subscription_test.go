package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionReadRepository_Exists(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{"subscribed", true},
		{"not subscribed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSubscriptionReadRepository(db)

			userID := uuid.New()
			channelID := uuid.New()

			mock.ExpectQuery("SELECT EXISTS").
				WithArgs(userID, channelID).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			exists, err := repo.Exists(context.Background(), userID, channelID)
			assert.NoError(t, err)
			assert.Equal(t, tt.exists, exists)
		})
	}
}

func TestSubscriptionWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	userID := uuid.New()
	channelID := uuid.New()

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(userID, channelID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Save(context.Background(), userID, channelID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionWriteRepository_Save_UserMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "subscriptions_user_id_fkey"})

	err := repo.Save(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrUserMissing)
}

func TestSubscriptionWriteRepository_Save_ChannelMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "subscriptions_channel_id_fkey"})

	err := repo.Save(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrChannelMissing)
}

func TestSubscriptionWriteRepository_Save_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subscriptions_pkey"})

	err := repo.Save(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSubscriptionWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	userID := uuid.New()
	channelID := uuid.New()

	mock.ExpectExec("DELETE FROM subscriptions").
		WithArgs(userID, channelID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), userID, channelID))
}

func TestSubscriptionWriteRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionWriteRepository(db)

	mock.ExpectExec("DELETE FROM subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
