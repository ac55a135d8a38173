package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/gw-bulletin/internal/logger"
	"github.com/sbilibin2017/gw-bulletin/internal/models"
	"github.com/sbilibin2017/gw-bulletin/internal/repositories"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserReferenced = errors.New("user has dependent records")
	ErrEmptyUpdate    = errors.New("no updates provided")
)

// UserService handles user reads and mutations.
type UserService struct {
	reader UserReader
	writer UserWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
	}
}

// Get returns the user with the given id.
func (svc *UserService) Get(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update changes only the supplied fields. A supplied password is re-hashed
// before storage; an update with no fields fails without touching storage.
func (svc *UserService) Update(ctx context.Context, id uuid.UUID, username, password *string) error {
	if username == nil && password == nil {
		return ErrEmptyUpdate
	}

	var passwordHash *string
	if password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return err
		}
		s := string(hashed)
		passwordHash = &s
	}

	err := svc.writer.Update(ctx, id, username, passwordHash)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return ErrUserAlreadyExists
	case err != nil:
		logger.Log.Errorw("failed to update user", "id", id, "err", err)
		return err
	}

	return nil
}

// Delete removes the user with the given id. A user that still owns
// channels, holds subscriptions, or has posted messages cannot be deleted.
func (svc *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	err := svc.writer.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrReferenced):
		return ErrUserReferenced
	case err != nil:
		logger.Log.Errorw("failed to delete user", "id", id, "err", err)
		return err
	}
	return nil
}
