package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
	"github.com/sbilibin2017/gw-bulletin/internal/validation"
)

// Subscriber defines the interface that the subscribe service must implement.
type Subscriber interface {
	Subscribe(ctx context.Context, userID, channelID uuid.UUID) error
}

// Unsubscriber defines the interface that the unsubscribe service must implement.
type Unsubscriber interface {
	Unsubscribe(ctx context.Context, userID, channelID uuid.UUID) error
}

// SubscriptionRequest represents the JSON body for subscribe and unsubscribe.
// swagger:model SubscriptionRequest
type SubscriptionRequest struct {
	// User ID
	// required: true
	UserID string `json:"user_id" validate:"required,uuid"`
	// Channel ID
	// required: true
	ChannelID string `json:"channel_id" validate:"required,uuid"`
}

// NewSubscribeHandler returns an HTTP handler that subscribes a user
// to a channel.
// @Summary Subscribe to channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscriptionRequest body handlers.SubscriptionRequest true "Subscription request"
// @Success 200 {object} handlers.MessageResponse "Subscribed"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "User or channel not found"
// @Failure 409 {object} handlers.ErrorResponse "Already subscribed"
// @Router /channels/subscribe [post]
func NewSubscribeHandler(svc Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

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

		err = svc.Subscribe(r.Context(), userID, channelID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "user not found")
			case errors.Is(err, services.ErrChannelNotFound):
				writeError(w, http.StatusNotFound, "channel not found")
			case errors.Is(err, services.ErrAlreadySubscribed):
				writeError(w, http.StatusConflict, "already subscribed")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "subscribed"})
	}
}

// NewUnsubscribeHandler returns an HTTP handler that removes a user's
// subscription to a channel.
// @Summary Unsubscribe from channel
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscriptionRequest body handlers.SubscriptionRequest true "Subscription request"
// @Success 200 {object} handlers.MessageResponse "Unsubscribed"
// @Failure 400 {object} handlers.ValidationErrorResponse "Invalid request body"
// @Failure 404 {object} handlers.ErrorResponse "Subscription not found"
// @Router /channels/unsubscribe [delete]
func NewUnsubscribeHandler(svc Unsubscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

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

		err = svc.Unsubscribe(r.Context(), userID, channelID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSubscriptionNotFound):
				writeError(w, http.StatusNotFound, "subscription not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "unsubscribed"})
	}
}
