package scheduler

import (
	"context"
	"time"

	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/logger"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 10 * time.Second

// StatsSource is the hub's snapshot query.
type StatsSource interface {
	Stats(ctx context.Context) (gamehub.Stats, error)
}

// WaitingPoolMirror is the external copy of the waiting pool.
type WaitingPoolMirror interface {
	ResetWaitingPool(ctx context.Context, playerIDs []string) error
}

// Housekeeper periodically logs hub stats and resyncs the waiting-pool
// mirror with the hub's in-memory pool, which is authoritative.
type Housekeeper struct {
	cron   *cron.Cron
	spec   string
	hub    StatsSource
	mirror WaitingPoolMirror
	log    logger.Logger
}

// NewHousekeeper schedules the job on spec, e.g. "@every 1m". mirror may be nil.
func NewHousekeeper(spec string, hub StatsSource, mirror WaitingPoolMirror, log logger.Logger) *Housekeeper {
	return &Housekeeper{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:   spec,
		hub:    hub,
		mirror: mirror,
		log:    log,
	}
}

func (h *Housekeeper) Start(ctx context.Context) error {
	h.log.Info("Starting housekeeper", "spec", h.spec)

	_, err := h.cron.AddFunc(h.spec, func() {
		if err := h.RunOnce(ctx); err != nil {
			h.log.Warn("Housekeeping run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	h.cron.Start()
	return nil
}

// Stop stops scheduling and waits for a running job to finish.
func (h *Housekeeper) Stop() {
	h.log.Info("Stopping housekeeper")
	<-h.cron.Stop().Done()
}

// RunOnce takes a stats snapshot, logs it and reconciles the mirror.
func (h *Housekeeper) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	stats, err := h.hub.Stats(ctx)
	if err != nil {
		return err
	}

	h.log.Info("Hub stats",
		"variant", stats.Variant,
		"connections", stats.Connections,
		"waiting", stats.Waiting,
		"active_sessions", stats.ActiveSessions)

	if h.mirror == nil {
		return nil
	}
	return h.mirror.ResetWaitingPool(ctx, stats.WaitingPlayers)
}
