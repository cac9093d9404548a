package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/glucose-diary/internal/database"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// GlucoseTestRepository stores glucose tests in postgres
type GlucoseTestRepository struct {
	db *gorm.DB
}

// NewGlucoseTestRepository creates a new glucose test repository
func NewGlucoseTestRepository(db *gorm.DB) *GlucoseTestRepository {
	return &GlucoseTestRepository{db: db}
}

var _ domain.GlucoseTestRepository = (*GlucoseTestRepository)(nil)

// Create inserts a test and fills its ID
func (r *GlucoseTestRepository) Create(ctx context.Context, test *domain.GlucoseTest) error {
	row := toRow(*test)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	test.ID = row.ID
	test.CreatedAt = row.CreatedAt
	return nil
}

// ListByUser returns up to limit tests of a user ordered by creation time
func (r *GlucoseTestRepository) ListByUser(ctx context.Context, userID int64, limit int, newestFirst bool) ([]domain.GlucoseTest, error) {
	order := "created_at ASC, id ASC"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(order)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []database.GlucoseTest
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// ListByUserInRange returns tests with start <= created_at < end, newest first
func (r *GlucoseTestRepository) ListByUserInRange(ctx context.Context, userID int64, start, end time.Time) ([]domain.GlucoseTest, error) {
	var rows []database.GlucoseTest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

// Delete removes a test by ID
func (r *GlucoseTestRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&database.GlucoseTest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns a test by ID
func (r *GlucoseTestRepository) GetByID(ctx context.Context, id uint) (*domain.GlucoseTest, error) {
	var row database.GlucoseTest
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	test := fromRow(row)
	return &test, nil
}

func toRow(t domain.GlucoseTest) database.GlucoseTest {
	return database.GlucoseTest{
		ID:         t.ID,
		UserID:     t.UserID,
		Glucose:    t.Glucose,
		Fasting:    t.Fasting,
		TestTime:   t.TestTime,
		Symptoms:   t.Symptoms,
		Notes:      t.Notes,
		JalaliDate: t.JalaliDate,
		CreatedAt:  t.CreatedAt,
	}
}

func fromRow(row database.GlucoseTest) domain.GlucoseTest {
	return domain.GlucoseTest{
		ID:         row.ID,
		UserID:     row.UserID,
		Glucose:    row.Glucose,
		Fasting:    row.Fasting,
		TestTime:   row.TestTime,
		Symptoms:   row.Symptoms,
		Notes:      row.Notes,
		JalaliDate: row.JalaliDate,
		CreatedAt:  row.CreatedAt,
	}
}

func fromRows(rows []database.GlucoseTest) []domain.GlucoseTest {
	tests := make([]domain.GlucoseTest, 0, len(rows))
	for _, row := range rows {
		tests = append(tests, fromRow(row))
	}
	return tests
}
