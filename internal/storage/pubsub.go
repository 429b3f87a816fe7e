package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"endgame/backend/internal/models"
)

const gameChannelPrefix = "game:"

// GameChannel is the Redis channel a game's events are published on.
func GameChannel(gameID string) string {
	return gameChannelPrefix + gameID
}

// PublishEvent publishes ev as JSON on its game's channel.
func (s *Service) PublishEvent(ctx context.Context, ev models.GameEvent) error {
	if s.Redis == nil || ev.GameID == "" {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, GameChannel(ev.GameID), payload).Err()
}

// WatchGames subscribes to every game channel and calls handle for each
// decoded event until ctx is cancelled. Undecodable payloads are passed to
// onError and skipped.
func (s *Service) WatchGames(ctx context.Context, handle func(models.GameEvent), onError func(error)) error {
	if s.Redis == nil {
		return ErrPersistenceDisabled
	}

	pubsub := s.Redis.PSubscribe(ctx, gameChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to game events: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev models.GameEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				if onError != nil {
					onError(fmt.Errorf("decode %s: %w", msg.Channel, err))
				}
				continue
			}
			handle(ev)
		}
	}
}
