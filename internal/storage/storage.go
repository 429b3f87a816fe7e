package storage

import (
	"context"
	"errors"
	"time"

	"endgame/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrPersistenceDisabled is returned by reads when no database is configured.
	ErrPersistenceDisabled = errors.New("persistence disabled")
	// ErrGameNotFound is returned when no record exists for a game id.
	ErrGameNotFound = errors.New("game not found")
)

// Storage is what the game hub and the HTTP layer need from persistence.
// Writes are no-ops when the backing store is not configured.
type Storage interface {
	SaveGame(ctx context.Context, game *models.GameRecord) error
	SaveMove(ctx context.Context, move *models.MoveRecord) error
	CloseGame(ctx context.Context, gameID, outcome string, plies int, endedAt time.Time) error

	GetGameByID(ctx context.Context, gameID string) (*models.GameRecord, error)
	GetMovesForGame(ctx context.Context, gameID string) ([]models.MoveRecord, error)
	GetGamesForPlayer(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error)
	GetActiveGameIDs(ctx context.Context) ([]string, error)
	CloseStaleGames(ctx context.Context) (int64, error)

	AddToWaitingPool(ctx context.Context, playerID string) error
	RemoveFromWaitingPool(ctx context.Context, playerIDs ...string) error
	GetWaitingPlayers(ctx context.Context) ([]string, error)
	ResetWaitingPool(ctx context.Context, playerIDs []string) error

	PublishEvent(ctx context.Context, ev models.GameEvent) error
}

// Service backs Storage with Postgres (game history) and Redis (waiting
// pool mirror, event fan-out). Either client may be nil.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the history tables.
func (s *Service) Migrate() error {
	if s.DB == nil {
		return ErrPersistenceDisabled
	}
	return s.DB.AutoMigrate(&models.GameRecord{}, &models.MoveRecord{})
}

// Close releases both connections.
func (s *Service) Close() error {
	var errs []error
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
