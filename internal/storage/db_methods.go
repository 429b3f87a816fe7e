package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"endgame/backend/internal/models"

	"gorm.io/gorm"
)

// SaveGame inserts a new game record.
func (s *Service) SaveGame(ctx context.Context, game *models.GameRecord) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.WithContext(ctx).Create(game).Error
}

// SaveMove appends an accepted action to a game's history.
func (s *Service) SaveMove(ctx context.Context, move *models.MoveRecord) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.WithContext(ctx).Create(move).Error
}

// CloseGame marks a game finished with its outcome and final ply count.
func (s *Service) CloseGame(ctx context.Context, gameID, outcome string, plies int, endedAt time.Time) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.WithContext(ctx).Model(&models.GameRecord{}).
		Where("game_id = ?", gameID).
		Updates(map[string]interface{}{
			"status":   models.GameStatusFinished,
			"outcome":  outcome,
			"plies":    plies,
			"ended_at": endedAt,
		}).Error
}

func (s *Service) GetGameByID(ctx context.Context, gameID string) (*models.GameRecord, error) {
	if s.DB == nil {
		return nil, ErrPersistenceDisabled
	}

	var game models.GameRecord
	err := s.DB.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", gameID, err)
	}
	return &game, nil
}

// GetMovesForGame returns a game's moves in the order they were accepted.
func (s *Service) GetMovesForGame(ctx context.Context, gameID string) ([]models.MoveRecord, error) {
	if s.DB == nil {
		return nil, ErrPersistenceDisabled
	}

	var moves []models.MoveRecord
	if err := s.DB.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("ply asc").
		Find(&moves).Error; err != nil {
		return nil, fmt.Errorf("get moves for %s: %w", gameID, err)
	}
	return moves, nil
}

// GetGamesForPlayer returns the player's most recent games first.
func (s *Service) GetGamesForPlayer(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error) {
	if s.DB == nil {
		return nil, ErrPersistenceDisabled
	}

	var games []models.GameRecord
	q := s.DB.WithContext(ctx).
		Where("? = ANY(players)", playerID).
		Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, fmt.Errorf("get games for %s: %w", playerID, err)
	}
	return games, nil
}

func (s *Service) GetActiveGameIDs(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, ErrPersistenceDisabled
	}

	var ids []string
	if err := s.DB.WithContext(ctx).Model(&models.GameRecord{}).
		Where("status = ?", models.GameStatusActive).
		Pluck("game_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("get active games: %w", err)
	}
	return ids, nil
}

// CloseStaleGames aborts every record still marked active. Live sessions do
// not survive a restart, so at startup any active record is left over.
func (s *Service) CloseStaleGames(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, ErrPersistenceDisabled
	}

	res := s.DB.WithContext(ctx).Model(&models.GameRecord{}).
		Where("status = ?", models.GameStatusActive).
		Updates(map[string]interface{}{
			"status":   models.GameStatusAborted,
			"ended_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("close stale games: %w", res.Error)
	}
	return res.RowsAffected, nil
}
