package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/middlewares"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/services"
)

// UserGetter defines the interface that the user read service must implement.
type UserGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
}

// NewMeHandler returns an HTTP handler that reports the authenticated user.
// @Summary Current user
// @Description Returns the account the request token belongs to
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserDB "Current user"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /me [get]
func NewMeHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.GetUserIDFromContext(r.Context())

		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "user not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
