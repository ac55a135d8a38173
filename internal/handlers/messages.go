package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
	"github.com/sbilibin2017/gw-bulletin/internal/validation"
)

// MessageCreator defines the interface that the message create service must implement.
type MessageCreator interface {
	Create(ctx context.Context, userID, channelID uuid.UUID, content string) (uuid.UUID, error)
}

// MessageLister defines the interface that the message list service must implement.
type MessageLister interface {
	List(ctx context.Context) ([]models.MessageDB, error)
}

// MessageGetter defines the interface that the message read service must implement.
type MessageGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.MessageDB, error)
}

// MessageUpdater defines the interface that the message update service must implement.
type MessageUpdater interface {
	Update(ctx context.Context, id uuid.UUID, content *string) error
}

// MessageDeleter defines the interface that the message delete service must implement.
type MessageDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageCreateRequest represents the JSON body for posting a message.
// swagger:model MessageCreateRequest
type MessageCreateRequest struct {
	// Author ID
	// required: true
	UserID string `json:"user_id" validate:"required,uuid"`

	// Channel ID
	// required: true
	ChannelID string `json:"channel_id" validate:"required,uuid"`

	// Message content
	// required: true
	// default: hello
	Content string `json:"content" validate:"required"`
}

// MessageCreateResponse represents a successful message creation response
// swagger:model MessageCreateResponse
type MessageCreateResponse struct {
	// ID of the created message
	ID uuid.UUID `json:"id"`
}

// MessageUpdateRequest represents the JSON body for editing a message.
// swagger:model MessageUpdateRequest
type MessageUpdateRequest struct {
	// Message content
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}

// NewMessageCreateHandler returns an HTTP handler that posts a message.
// The author must be subscribed to the target channel.
// @Summary Post message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageCreateRequest body handlers.MessageCreateRequest true "Message creation request"
// @Success 201 {object} handlers.MessageCreateResponse "Message created"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 403 {object} handlers.ErrorResponse "Not subscribed to the channel"
// @Failure 404 {object} handlers.ErrorResponse "User or channel not found"
// @Router /messages [post]
func NewMessageCreateHandler(svc MessageCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MessageCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Content = strings.TrimSpace(req.Content)

		if fields := validation.Validate(req); fields != nil {
			writeValidationError(w, fields)
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}

		channelID, err := uuid.Parse(req.ChannelID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid channel_id")
			return
		}

		id, err := svc.Create(r.Context(), userID, channelID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotSubscribed):
				writeError(w, http.StatusForbidden, "not subscribed to this channel")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "user not found")
			case errors.Is(err, services.ErrChannelNotFound):
				writeError(w, http.StatusNotFound, "channel not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, MessageCreateResponse{ID: id})
	}
}

// NewMessageListHandler returns an HTTP handler that lists all messages.
// @Summary List messages
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MessageDB "Messages"
// @Router /messages [get]
func NewMessageListHandler(svc MessageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, messages)
	}
}

// NewMessageGetHandler returns an HTTP handler that reads a single message.
// @Summary Get message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.MessageDB "Message"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id} [get]
func NewMessageGetHandler(svc MessageGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		message, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				writeError(w, http.StatusNotFound, "message not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, message)
	}
}

// NewMessageUpdateHandler returns an HTTP handler that edits a message.
// @Summary Update message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param messageUpdateRequest body handlers.MessageUpdateRequest true "Fields to change"
// @Success 200 {object} handlers.MessageResponse "Message updated"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id} [put]
func NewMessageUpdateHandler(svc MessageUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req MessageUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Content != nil {
			trimmed := strings.TrimSpace(*req.Content)
			if trimmed == "" {
				writeValidationError(w, []validation.FieldError{{Field: "content", Rule: "min"}})
				return
			}
			req.Content = &trimmed
		}

		err := svc.Update(r.Context(), id, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmptyUpdate):
				writeError(w, http.StatusBadRequest, "no updates provided")
			case errors.Is(err, services.ErrMessageNotFound):
				writeError(w, http.StatusNotFound, "message not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "message updated"})
	}
}

// NewMessageDeleteHandler returns an HTTP handler that deletes a message.
// @Summary Delete message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} handlers.MessageResponse "Message deleted"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Message not found"
// @Router /messages/{id} [delete]
func NewMessageDeleteHandler(svc MessageDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMessageNotFound):
				writeError(w, http.StatusNotFound, "message not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "message deleted"})
	}
}
