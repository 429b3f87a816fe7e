package gamehub

import (
	"context"
	"sync"
	"time"

	"endgame/backend/internal/logger"
	"endgame/backend/internal/models"
	"endgame/backend/internal/storage"
)

const (
	defaultRecorderBuffer = 1024
	recordTimeout         = 5 * time.Second
)

// Recorder receives a copy of every game event. Record must not block.
type Recorder interface {
	Record(ev models.GameEvent)
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) Record(models.GameEvent) {}

// StorageRecorder writes game events to storage from its own goroutine, so
// slow or failing storage never holds up the hub loop. Events that do not
// fit in the buffer are dropped.
type StorageRecorder struct {
	store  storage.Storage
	log    logger.Logger
	events chan models.GameEvent
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

func NewStorageRecorder(store storage.Storage, buffer int, log logger.Logger) *StorageRecorder {
	if buffer <= 0 {
		buffer = defaultRecorderBuffer
	}
	return &StorageRecorder{
		store:  store,
		log:    log,
		events: make(chan models.GameEvent, buffer),
	}
}

// Start launches the worker. Call Stop to drain and wait for it.
func (r *StorageRecorder) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for ev := range r.events {
			r.write(ev)
		}
	}()
}

func (r *StorageRecorder) Record(ev models.GameEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		return
	}
	select {
	case r.events <- ev:
	default:
		r.log.Warn("Recorder buffer full, dropping event", "kind", ev.Kind, "game_id", ev.GameID)
	}
}

// Stop refuses further events and waits until the queued ones are written.
func (r *StorageRecorder) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.events)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *StorageRecorder) write(ev models.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	var err error
	switch ev.Kind {
	case models.EventQueued:
		err = r.store.AddToWaitingPool(ctx, ev.PlayerID)
	case models.EventDequeued:
		err = r.store.RemoveFromWaitingPool(ctx, ev.PlayerID)
	case models.EventGameStarted:
		err = r.saveGame(ctx, ev)
	case models.EventActionApplied:
		err = r.store.SaveMove(ctx, &models.MoveRecord{
			GameID:    ev.GameID,
			Ply:       ev.Ply,
			Role:      ev.Role,
			PlayerID:  ev.PlayerID,
			Action:    string(ev.Action),
			State:     ev.State,
			AppliedAt: ev.At,
		})
	case models.EventGameOver:
		err = r.store.CloseGame(ctx, ev.GameID, ev.Outcome, ev.Ply, ev.At)
	}
	if err != nil {
		r.log.Error("Failed to record game event", "kind", ev.Kind, "game_id", ev.GameID, "error", err)
	}

	if ev.GameID == "" {
		return
	}
	if err := r.store.PublishEvent(ctx, ev); err != nil {
		r.log.Warn("Failed to publish game event", "kind", ev.Kind, "game_id", ev.GameID, "error", err)
	}
}

func (r *StorageRecorder) saveGame(ctx context.Context, ev models.GameEvent) error {
	if len(ev.Players) != 2 {
		return nil
	}
	if err := r.store.RemoveFromWaitingPool(ctx, ev.Players...); err != nil {
		r.log.Warn("Failed to update waiting pool mirror", "game_id", ev.GameID, "error", err)
	}
	return r.store.SaveGame(ctx, &models.GameRecord{
		GameID:         ev.GameID,
		Variant:        ev.Variant,
		FirstPlayerID:  ev.Players[0],
		SecondPlayerID: ev.Players[1],
		Players:        ev.Players,
		Status:         models.GameStatusActive,
		StartedAt:      ev.At,
	})
}
