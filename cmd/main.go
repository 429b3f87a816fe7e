package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"endgame/backend/internal/api/handler"
	"endgame/backend/internal/config"
	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/logger"
	"endgame/backend/internal/rules"
	"endgame/backend/internal/scheduler"
	"endgame/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if log, err = logger.NewWithConfig(cfg.Log.Level, cfg.Log.Development); err != nil {
		logger.New().Error("Invalid log config", "error", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting endgame backend", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	oracle, ok := rules.New(cfg.Game.Variant)
	if !ok {
		log.Fatal("Unknown game variant", "variant", cfg.Game.Variant)
	}

	store := setupStorage(ctx, cfg, log)
	defer store.Close()

	var recorder gamehub.Recorder = gamehub.NopRecorder{}
	var storageRecorder *gamehub.StorageRecorder
	if store.DB != nil || store.Redis != nil {
		storageRecorder = gamehub.NewStorageRecorder(store, cfg.Game.RecorderBuffer, log)
		storageRecorder.Start()
		recorder = storageRecorder
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := gamehub.NewManagerService(oracle, recorder, log)
	go hub.Run(hubCtx)

	var mirror scheduler.WaitingPoolMirror
	if store.Redis != nil {
		mirror = store
	}
	housekeeper := scheduler.NewHousekeeper(cfg.Game.HousekeepingSpec, hub, mirror, log)
	if err := housekeeper.Start(hubCtx); err != nil {
		log.Fatal("Failed to start housekeeper", "error", err)
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	handler.NewHandler(hub, store, cfg, log).RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	housekeeper.Stop()
	// Websocket connections are hijacked, so Shutdown leaves them to the hub.
	stopHub()
	<-hub.Done()
	if storageRecorder != nil {
		storageRecorder.Stop()
	}

	log.Info("Endgame backend stopped")
}

func setupStorage(ctx context.Context, cfg *config.Config, log logger.Logger) *storage.Service {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := storage.Connect(connectCtx, storage.Options{
		PostgresDSN:   cfg.Postgres.DSN,
		RedisAddress:  cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect storage", "error", err)
	}

	if store.DB != nil {
		if err := store.Migrate(); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		n, err := store.CloseStaleGames(connectCtx)
		if err != nil {
			log.Warn("Failed to close stale games", "error", err)
		} else if n > 0 {
			log.Info("Aborted games left active by a previous run", "count", n)
		}
	} else {
		log.Info("Postgres not configured, game history disabled")
	}

	if store.Redis != nil {
		if err := store.ResetWaitingPool(connectCtx, nil); err != nil {
			log.Warn("Failed to clear waiting pool mirror", "error", err)
		}
	} else {
		log.Info("Redis not configured, waiting pool mirror and event feed disabled")
	}

	log.Info("Storage ready", "postgres", store.DB != nil, "redis", store.Redis != nil)
	return store
}
