package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/glucose-diary/internal/errors"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	user, err := s.users.GetOrCreate(ctx, telegramID, username, firstName, lastName)
	if err != nil {
		return nil, apperrors.NewDatabaseError(fmt.Errorf("failed to register user: %w", err))
	}
	return user, nil
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user", telegramID)
		}
		return nil, apperrors.NewDatabaseError(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}
