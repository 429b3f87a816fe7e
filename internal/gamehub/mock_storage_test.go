package gamehub

import (
	"context"
	"time"

	"endgame/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveGame(ctx context.Context, game *models.GameRecord) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockStorage) SaveMove(ctx context.Context, move *models.MoveRecord) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}

func (m *MockStorage) CloseGame(ctx context.Context, gameID, outcome string, plies int, endedAt time.Time) error {
	args := m.Called(ctx, gameID, outcome, plies, endedAt)
	return args.Error(0)
}

func (m *MockStorage) GetGameByID(ctx context.Context, gameID string) (*models.GameRecord, error) {
	args := m.Called(ctx, gameID)
	if game, ok := args.Get(0).(*models.GameRecord); ok {
		return game, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetMovesForGame(ctx context.Context, gameID string) ([]models.MoveRecord, error) {
	args := m.Called(ctx, gameID)
	if moves, ok := args.Get(0).([]models.MoveRecord); ok {
		return moves, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetGamesForPlayer(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if games, ok := args.Get(0).([]models.GameRecord); ok {
		return games, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetActiveGameIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) CloseStaleGames(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) AddToWaitingPool(ctx context.Context, playerID string) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}

func (m *MockStorage) RemoveFromWaitingPool(ctx context.Context, playerIDs ...string) error {
	args := m.Called(ctx, playerIDs)
	return args.Error(0)
}

func (m *MockStorage) GetWaitingPlayers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ResetWaitingPool(ctx context.Context, playerIDs []string) error {
	args := m.Called(ctx, playerIDs)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(ctx context.Context, ev models.GameEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
