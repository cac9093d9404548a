package repository

import (
	"fmt"

	"github.com/vladimiradmaev/glucose-diary/internal/config"
	"github.com/vladimiradmaev/glucose-diary/internal/database"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/repository/memory"
)

// Repositories bundles the storage ports used by the services
type Repositories struct {
	Tests domain.GlucoseTestRepository
	Users domain.UserRepository
	close func() error
}

// Close releases the underlying storage
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// New opens the storage backend selected in cfg
func New(cfg *config.Config) (*Repositories, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		return &Repositories{Tests: store, Users: store}, nil
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		return &Repositories{
			Tests: NewGlucoseTestRepository(db),
			Users: NewUserRepository(db),
			close: sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
