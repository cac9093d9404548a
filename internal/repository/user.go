package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/glucose-diary/internal/database"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// GetOrCreate gets an existing user or creates a new one
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	var row database.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&row)
	if result.Error == nil {
		user := userFromRow(row)
		return &user, nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	row = database.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}

	user := userFromRow(row)
	return &user, nil
}

// GetByTelegramID gets a user by their Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var row database.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user := userFromRow(row)
	return &user, nil
}

func userFromRow(row database.User) domain.User {
	return domain.User{
		ID:         row.ID,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		TelegramID: row.TelegramID,
		Username:   row.Username,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
	}
}
