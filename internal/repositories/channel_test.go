package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func channelColumns() []string {
	return []string{"id", "name", "owner_id", "created_at", "updated_at"}
}

func TestChannelReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelReadRepository(db)

	id := uuid.New()
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT id, name, owner_id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(channelColumns()).
			AddRow(id.String(), "news", ownerID.String(), now, now))

	channel, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.NotNil(t, channel)
	assert.Equal(t, "news", channel.Name)
	assert.Equal(t, ownerID, channel.OwnerID)
}

func TestChannelReadRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelReadRepository(db)

	mock.ExpectQuery("SELECT id, name, owner_id").
		WillReturnRows(sqlmock.NewRows(channelColumns()))

	channel, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, channel)
}

func TestChannelReadRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelReadRepository(db)

	now := time.Now()

	mock.ExpectQuery("SELECT id, name, owner_id").
		WillReturnRows(sqlmock.NewRows(channelColumns()).
			AddRow(uuid.NewString(), "news", uuid.NewString(), now, now).
			AddRow(uuid.NewString(), "random", uuid.NewString(), now, now))

	channels, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, channels, 2)
}

func TestChannelReadRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelReadRepository(db)

	mock.ExpectQuery("SELECT id, name, owner_id").
		WillReturnRows(sqlmock.NewRows(channelColumns()))

	channels, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, channels)
	assert.NotNil(t, channels)
}

func TestChannelWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	id := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery("INSERT INTO channels").
		WithArgs("news", ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	got, err := repo.Save(context.Background(), "news", ownerID)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestChannelWriteRepository_Save_OwnerMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	mock.ExpectQuery("INSERT INTO channels").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "channels_owner_id_fkey"})

	_, err := repo.Save(context.Background(), "news", uuid.New())
	assert.ErrorIs(t, err, ErrUserMissing)
}

func TestChannelWriteRepository_Save_DuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	mock.ExpectQuery("INSERT INTO channels").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "channels_name_key"})

	_, err := repo.Save(context.Background(), "news", uuid.New())
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestChannelWriteRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	id := uuid.New()
	name := "breaking-news"
	ownerID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE channels SET name = $1, owner_id = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs(name, ownerID, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), id, &name, &ownerID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelWriteRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	name := "ghost"

	mock.ExpectExec("UPDATE channels").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), uuid.New(), &name, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannelWriteRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	mock.ExpectExec("DELETE FROM channels").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannelWriteRepository_Delete_Referenced(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChannelWriteRepository(db)

	mock.ExpectExec("DELETE FROM channels").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "messages_channel_id_fkey"})

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReferenced)
}
