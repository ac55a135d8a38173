package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/repositories"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
)

func TestChannelService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, nil)

	channelID := uuid.New()
	ownerID := uuid.New()

	tests := []struct {
		name      string
		writerErr error
		wantErr   error
	}{
		{
			name: "created",
		},
		{
			name:      "name taken",
			writerErr: repositories.ErrDuplicate,
			wantErr:   services.ErrChannelAlreadyExists,
		},
		{
			name:      "owner missing",
			writerErr: repositories.ErrUserMissing,
			wantErr:   services.ErrOwnerNotFound,
		},
		{
			name:      "writer error",
			writerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWriter.EXPECT().
				Save(gomock.Any(), "news", ownerID).
				DoAndReturn(func(context.Context, string, uuid.UUID) (uuid.UUID, error) {
					if tt.writerErr != nil {
						return uuid.Nil, tt.writerErr
					}
					return channelID, nil
				})

			id, err := svc.Create(context.Background(), "news", ownerID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, channelID, id)
			}
		})
	}
}

func TestChannelService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)
	mockCache := services.NewMockChannelCache(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, mockCache)

	channelID := uuid.New()
	channel := &models.ChannelDB{ID: channelID, Name: "news", OwnerID: uuid.New()}

	t.Run("served from cache", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), channelID).Return(channel, nil)

		got, err := svc.Get(context.Background(), channelID)
		assert.NoError(t, err)
		assert.Equal(t, channel, got)
	})

	t.Run("cache miss falls through and backfills", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), channelID).Return(nil, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), channelID).Return(channel, nil)
		mockCache.EXPECT().Set(gomock.Any(), channel).Return(nil)

		got, err := svc.Get(context.Background(), channelID)
		assert.NoError(t, err)
		assert.Equal(t, channel, got)
	})

	t.Run("cache error falls through", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), channelID).Return(nil, errors.New("redis down"))
		mockReader.EXPECT().GetByID(gomock.Any(), channelID).Return(channel, nil)
		mockCache.EXPECT().Set(gomock.Any(), channel).Return(errors.New("redis down"))

		got, err := svc.Get(context.Background(), channelID)
		assert.NoError(t, err)
		assert.Equal(t, channel, got)
	})

	t.Run("not found", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), channelID).Return(nil, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), channelID).Return(nil, nil)

		got, err := svc.Get(context.Background(), channelID)
		assert.ErrorIs(t, err, services.ErrChannelNotFound)
		assert.Nil(t, got)
	})

	t.Run("reader error", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), channelID).Return(nil, nil)
		mockReader.EXPECT().GetByID(gomock.Any(), channelID).Return(nil, errors.New("db error"))

		_, err := svc.Get(context.Background(), channelID)
		assert.EqualError(t, err, "db error")
	})
}

func TestChannelService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, nil)

	channels := []models.ChannelDB{
		{ID: uuid.New(), Name: "news"},
		{ID: uuid.New(), Name: "random"},
	}

	mockReader.EXPECT().List(gomock.Any()).Return(channels, nil)

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, channels, got)
}

func TestChannelService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)
	mockCache := services.NewMockChannelCache(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, mockCache)

	channelID := uuid.New()
	name := "updated"

	tests := []struct {
		name      string
		chName    *string
		writerErr error
		wantErr   error
	}{
		{
			name:   "updated",
			chName: &name,
		},
		{
			name:    "nothing to update",
			wantErr: services.ErrEmptyUpdate,
		},
		{
			name:      "channel not found",
			chName:    &name,
			writerErr: repositories.ErrNotFound,
			wantErr:   services.ErrChannelNotFound,
		},
		{
			name:      "name taken",
			chName:    &name,
			writerErr: repositories.ErrDuplicate,
			wantErr:   services.ErrChannelAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.chName != nil {
				mockWriter.EXPECT().
					Update(gomock.Any(), channelID, tt.chName, nil).
					Return(tt.writerErr)
				if tt.writerErr == nil {
					mockCache.EXPECT().Delete(gomock.Any(), channelID).Return(nil)
				}
			}

			err := svc.Update(context.Background(), channelID, tt.chName, nil)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChannelService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)
	mockCache := services.NewMockChannelCache(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, mockCache)

	channelID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		mockWriter.EXPECT().Delete(gomock.Any(), channelID).Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), channelID).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), channelID))
	})

	t.Run("not found", func(t *testing.T) {
		mockWriter.EXPECT().Delete(gomock.Any(), channelID).Return(repositories.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), channelID), services.ErrChannelNotFound)
	})

	t.Run("still referenced", func(t *testing.T) {
		mockWriter.EXPECT().Delete(gomock.Any(), channelID).Return(repositories.ErrReferenced)

		assert.ErrorIs(t, svc.Delete(context.Background(), channelID), services.ErrChannelReferenced)
	})
}

func TestChannelService_Subscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, nil)

	userID := uuid.New()
	channelID := uuid.New()

	tests := []struct {
		name    string
		subsErr error
		wantErr error
	}{
		{
			name: "subscribed",
		},
		{
			name:    "already subscribed",
			subsErr: repositories.ErrDuplicate,
			wantErr: services.ErrAlreadySubscribed,
		},
		{
			name:    "user missing",
			subsErr: repositories.ErrUserMissing,
			wantErr: services.ErrUserNotFound,
		},
		{
			name:    "channel missing",
			subsErr: repositories.ErrChannelMissing,
			wantErr: services.ErrChannelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSubs.EXPECT().
				Save(gomock.Any(), userID, channelID).
				Return(tt.subsErr)

			err := svc.Subscribe(context.Background(), userID, channelID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChannelService_Unsubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockChannelReader(ctrl)
	mockWriter := services.NewMockChannelWriter(ctrl)
	mockSubs := services.NewMockSubscriptionWriter(ctrl)

	svc := services.NewChannelService(mockReader, mockWriter, mockSubs, nil)

	userID := uuid.New()
	channelID := uuid.New()

	t.Run("unsubscribed", func(t *testing.T) {
		mockSubs.EXPECT().Delete(gomock.Any(), userID, channelID).Return(nil)

		assert.NoError(t, svc.Unsubscribe(context.Background(), userID, channelID))
	})

	t.Run("not subscribed", func(t *testing.T) {
		mockSubs.EXPECT().Delete(gomock.Any(), userID, channelID).Return(repositories.ErrNotFound)

		assert.ErrorIs(t, svc.Unsubscribe(context.Background(), userID, channelID), services.ErrSubscriptionNotFound)
	})
}
