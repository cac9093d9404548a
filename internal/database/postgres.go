package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/glucose-diary/internal/config"
	"github.com/vladimiradmaev/glucose-diary/internal/database/migrations"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
}

type GlucoseTest struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     int64     `gorm:"index:idx_glucose_tests_user_created,priority:1;not null"`
	Glucose    int       `gorm:"not null"`
	Fasting    bool      `gorm:"not null"`
	TestTime   string    `gorm:"size:5;not null"`
	Symptoms   string    `gorm:"not null;default:''"`
	Notes      string    `gorm:"not null;default:''"`
	JalaliDate string    `gorm:"size:10;not null"`
	CreatedAt  time.Time `gorm:"index:idx_glucose_tests_user_created,priority:2,sort:desc;not null"`
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "database", cfg.DBName)
	return db, nil
}

// Migrate applies the bundled SQL migrations, then auto-migrates the models
func Migrate(db *gorm.DB) error {
	registry := migrations.NewRegistry()
	if err := registry.LoadSQL(migrations.SQL, "sql"); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := registry.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Auto-migrate the schema for columns added after the SQL migrations
	if err := db.AutoMigrate(&User{}, &GlucoseTest{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
