package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
	"github.com/sbilibin2017/gw-bulletin/internal/validation"
)

// ChannelCreator defines the interface that the channel create service must implement.
type ChannelCreator interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (uuid.UUID, error)
}

// ChannelLister defines the interface that the channel list service must implement.
type ChannelLister interface {
	List(ctx context.Context) ([]models.ChannelDB, error)
}

// ChannelGetter defines the interface that the channel read service must implement.
type ChannelGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ChannelDB, error)
}

// ChannelUpdater defines the interface that the channel update service must implement.
type ChannelUpdater interface {
	Update(ctx context.Context, id uuid.UUID, name *string, ownerID *uuid.UUID) error
}

// ChannelDeleter defines the interface that the channel delete service must implement.
type ChannelDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChannelCreateRequest represents the JSON body for channel creation
// swagger:model ChannelCreateRequest
type ChannelCreateRequest struct {
	// Channel name, unique across the system
	// required: true
	// default: news
	Name string `json:"name" validate:"required"`

	// Owner user ID
	// required: true
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

// ChannelCreateResponse represents a successful channel creation response
// swagger:model ChannelCreateResponse
type ChannelCreateResponse struct {
	// ID of the created channel
	ID uuid.UUID `json:"id"`
}

// ChannelUpdateRequest represents the JSON body for a partial channel update.
// Absent fields keep their stored value.
// swagger:model ChannelUpdateRequest
type ChannelUpdateRequest struct {
	// Channel name
	Name *string `json:"name,omitempty" validate:"omitempty,min=1"`

	// Owner user ID
	OwnerID *string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
}

// NewChannelCreateHandler returns an HTTP handler for channel creation.
// @Summary Create channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param channelCreateRequest body handlers.ChannelCreateRequest true "Channel creation request"
// @Success 201 {object} handlers.ChannelCreateResponse "Channel created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "Owner not found"
// @Failure 409 {object} handlers.ErrorResponse "Channel name already exists"
// @Router /channels [post]
func NewChannelCreateHandler(svc ChannelCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChannelCreateRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if fields := validation.Validate(req); fields != nil {
			writeValidationError(w, fields)
			return
		}

		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid owner_id")
			return
		}

		id, err := svc.Create(r.Context(), req.Name, ownerID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrOwnerNotFound):
				writeError(w, http.StatusNotFound, "owner not found")
			case errors.Is(err, services.ErrChannelAlreadyExists):
				writeError(w, http.StatusConflict, "channel name already exists")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, ChannelCreateResponse{ID: id})
	}
}

// NewChannelListHandler returns an HTTP handler that lists all channels.
// @Summary List channels
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ChannelDB "Channels"
// @Router /channels [get]
func NewChannelListHandler(svc ChannelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channels, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, channels)
	}
}

// NewChannelGetHandler returns an HTTP handler that reads a single channel.
// @Summary Get channel
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Channel ID"
// @Success 200 {object} models.ChannelDB "Channel"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Channel not found"
// @Router /channels/{id} [get]
func NewChannelGetHandler(svc ChannelGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		channel, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrChannelNotFound):
				writeError(w, http.StatusNotFound, "channel not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, channel)
	}
}

// NewChannelUpdateHandler returns an HTTP handler that updates a channel.
// @Summary Update channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Channel ID"
// @Param channelUpdateRequest body handlers.ChannelUpdateRequest true "Fields to change"
// @Success 200 {object} handlers.MessageResponse "Channel updated"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "Channel or owner not found"
// @Failure 409 {object} handlers.ErrorResponse "Channel name already exists"
// @Router /channels/{id} [put]
func NewChannelUpdateHandler(svc ChannelUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req ChannelUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if fields := validation.Validate(req); fields != nil {
			writeValidationError(w, fields)
			return
		}

		var ownerID *uuid.UUID
		if req.OwnerID != nil {
			parsed, err := uuid.Parse(*req.OwnerID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid owner_id")
				return
			}
			ownerID = &parsed
		}

		err := svc.Update(r.Context(), id, req.Name, ownerID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyUpdate):
				writeError(w, http.StatusBadRequest, "no updates provided")
			case errors.Is(err, services.ErrChannelNotFound):
				writeError(w, http.StatusNotFound, "channel not found")
			case errors.Is(err, services.ErrOwnerNotFound):
				writeError(w, http.StatusNotFound, "owner not found")
			case errors.Is(err, services.ErrChannelAlreadyExists):
				writeError(w, http.StatusConflict, "channel name already exists")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "channel updated"})
	}
}

// NewChannelDeleteHandler returns an HTTP handler that deletes a channel.
// @Summary Delete channel
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Channel ID"
// @Success 200 {object} handlers.MessageResponse "Channel deleted"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Channel not found"
// @Failure 409 {object} handlers.ErrorResponse "Channel still referenced"
// @Router /channels/{id} [delete]
func NewChannelDeleteHandler(svc ChannelDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrChannelNotFound):
				writeError(w, http.StatusNotFound, "channel not found")
			case errors.Is(err, services.ErrChannelReferenced):
				writeError(w, http.StatusConflict, "channel has dependent records")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "channel deleted"})
	}
}
