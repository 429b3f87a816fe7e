package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// WaitingPoolKey is the Redis set mirroring the players waiting for an opponent.
const WaitingPoolKey = "waiting_pool"

func (s *Service) AddToWaitingPool(ctx context.Context, playerID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.SAdd(ctx, WaitingPoolKey, playerID).Err()
}

func (s *Service) RemoveFromWaitingPool(ctx context.Context, playerIDs ...string) error {
	if s.Redis == nil || len(playerIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(playerIDs))
	for i, id := range playerIDs {
		members[i] = id
	}
	return s.Redis.SRem(ctx, WaitingPoolKey, members...).Err()
}

func (s *Service) GetWaitingPlayers(ctx context.Context) ([]string, error) {
	if s.Redis == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.Redis.SMembers(ctx, WaitingPoolKey).Result()
}

// ResetWaitingPool replaces the mirror with playerIDs in one transaction.
func (s *Service) ResetWaitingPool(ctx context.Context, playerIDs []string) error {
	if s.Redis == nil {
		return nil
	}
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, WaitingPoolKey)
		if len(playerIDs) > 0 {
			members := make([]interface{}, len(playerIDs))
			for i, id := range playerIDs {
				members[i] = id
			}
			pipe.SAdd(ctx, WaitingPoolKey, members...)
		}
		return nil
	})
	return err
}
