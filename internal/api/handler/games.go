package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	statsTimeout        = 2 * time.Second
)

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStats reports live connection, waiting and session counts.
func (h *Handler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), statsTimeout)
	defer cancel()

	stats, err := h.Hub.Stats(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gamehub.ErrHubStopped) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetGame returns one game record with its moves.
func (h *Handler) GetGame(c *gin.Context) {
	ctx := c.Request.Context()
	gameID := c.Param("id")

	game, err := h.Storage.GetGameByID(ctx, gameID)
	if err != nil {
		h.storageError(c, err)
		return
	}
	moves, err := h.Storage.GetMovesForGame(ctx, gameID)
	if err != nil {
		h.storageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game, "moves": moves})
}

// GetPlayerGames lists an anonymous player's recent games.
func (h *Handler) GetPlayerGames(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.Storage.GetGamesForPlayer(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) storageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrPersistenceDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game history is not enabled"})
	case errors.Is(err, storage.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	default:
		h.log.Error("Storage request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
