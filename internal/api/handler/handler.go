package handler

import (
	"endgame/backend/internal/config"
	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/logger"
	"endgame/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP surface of the game hub.
type Handler struct {
	Hub     *gamehub.ManagerService
	Storage storage.Storage

	auth       config.AuthConfig
	sendBuffer int
	log        logger.Logger
}

func NewHandler(hub *gamehub.ManagerService, store storage.Storage, cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		Hub:        hub,
		Storage:    store,
		auth:       cfg.Auth,
		sendBuffer: cfg.Game.SendBuffer,
		log:        log,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)
	r.GET("/anonid", h.GetAnonID)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/stats", h.GetStats)
	r.GET("/games/:id", h.GetGame)
	r.GET("/players/:id/games", h.GetPlayerGames)
}
