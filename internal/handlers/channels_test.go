package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
)

func TestChannelCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channelID := uuid.New()
	ownerID := uuid.New()

	tests := []struct {
		name         string
		body         any
		rawBody      string
		mockSetup    func(m *MockChannelCreator)
		expectedCode int
	}{
		{
			name: "created",
			body: ChannelCreateRequest{Name: "news", OwnerID: ownerID.String()},
			mockSetup: func(m *MockChannelCreator) {
				m.EXPECT().
					Create(gomock.Any(), "news", ownerID).
					Return(channelID, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "name taken",
			body: ChannelCreateRequest{Name: "news", OwnerID: ownerID.String()},
			mockSetup: func(m *MockChannelCreator) {
				m.EXPECT().
					Create(gomock.Any(), "news", ownerID).
					Return(uuid.Nil, services.ErrChannelAlreadyExists)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "owner not found",
			body: ChannelCreateRequest{Name: "news", OwnerID: ownerID.String()},
			mockSetup: func(m *MockChannelCreator) {
				m.EXPECT().
					Create(gomock.Any(), "news", ownerID).
					Return(uuid.Nil, services.ErrOwnerNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "missing name",
			body:         ChannelCreateRequest{OwnerID: ownerID.String()},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "owner id not a uuid",
			body:         ChannelCreateRequest{Name: "news", OwnerID: "nope"},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid json}",
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChannelCreator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewChannelCreateHandler(mockSvc)

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBufferString(tt.rawBody))
			} else {
				bodyBytes, _ := json.Marshal(tt.body)
				req = httptest.NewRequest(http.MethodPost, "/channels", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestChannelListHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channels := []models.ChannelDB{
		{ID: uuid.New(), Name: "news"},
		{ID: uuid.New(), Name: "random"},
	}

	mockSvc := NewMockChannelLister(ctrl)
	mockSvc.EXPECT().List(gomock.Any()).Return(channels, nil)

	handler := NewChannelListHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/channels", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []models.ChannelDB
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestChannelGetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channelID := uuid.New()
	channel := &models.ChannelDB{ID: channelID, Name: "news"}

	tests := []struct {
		name         string
		id           string
		mockSetup    func(m *MockChannelGetter)
		expectedCode int
	}{
		{
			name: "found",
			id:   channelID.String(),
			mockSetup: func(m *MockChannelGetter) {
				m.EXPECT().Get(gomock.Any(), channelID).Return(channel, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "not found",
			id:   channelID.String(),
			mockSetup: func(m *MockChannelGetter) {
				m.EXPECT().Get(gomock.Any(), channelID).Return(nil, services.ErrChannelNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "invalid id",
			id:           "not-a-uuid",
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChannelGetter(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			r := chi.NewRouter()
			r.Get("/channels/{id}", NewChannelGetHandler(mockSvc))

			req := httptest.NewRequest(http.MethodGet, "/channels/"+tt.id, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestChannelUpdateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channelID := uuid.New()
	name := "renamed"

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockChannelUpdater)
		expectedCode int
	}{
		{
			name: "updated",
			body: `{"name":"renamed"}`,
			mockSetup: func(m *MockChannelUpdater) {
				m.EXPECT().
					Update(gomock.Any(), channelID, &name, nil).
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "channel not found",
			body: `{"name":"renamed"}`,
			mockSetup: func(m *MockChannelUpdater) {
				m.EXPECT().
					Update(gomock.Any(), channelID, &name, nil).
					Return(services.ErrChannelNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "owner id not a uuid",
			body:         `{"owner_id":"nope"}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChannelUpdater(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			r := chi.NewRouter()
			r.Put("/channels/{id}", NewChannelUpdateHandler(mockSvc))

			req := httptest.NewRequest(http.MethodPut, "/channels/"+channelID.String(), bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestChannelDeleteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	channelID := uuid.New()

	tests := []struct {
		name         string
		mockSetup    func(m *MockChannelDeleter)
		expectedCode int
	}{
		{
			name: "deleted",
			mockSetup: func(m *MockChannelDeleter) {
				m.EXPECT().Delete(gomock.Any(), channelID).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "not found",
			mockSetup: func(m *MockChannelDeleter) {
				m.EXPECT().Delete(gomock.Any(), channelID).Return(services.ErrChannelNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "still referenced",
			mockSetup: func(m *MockChannelDeleter) {
				m.EXPECT().Delete(gomock.Any(), channelID).Return(services.ErrChannelReferenced)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChannelDeleter(ctrl)
			tt.mockSetup(mockSvc)

			r := chi.NewRouter()
			r.Delete("/channels/{id}", NewChannelDeleteHandler(mockSvc))

			req := httptest.NewRequest(http.MethodDelete, "/channels/"+channelID.String(), nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
