package config_test

import (
	"testing"
	"time"

	"endgame/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.VariantChess, cfg.Game.Variant)
	assert.Equal(t, 256, cfg.Game.SendBuffer)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.Required)
	assert.False(t, cfg.PersistenceEnabled(), "persistence is off without a DSN")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GAME_VARIANT", "tictactoe")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("POSTGRES_DSN", "host=db user=u dbname=endgame")
	t.Setenv("AUTH_TOKEN_TTL", "1h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.VariantTicTacToe, cfg.Game.Variant)
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.PersistenceEnabled())
}

func TestLoad_RejectsUnknownVariant(t *testing.T) {
	t.Setenv("GAME_VARIANT", "checkers")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_StringHidesSecrets(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Auth.JWTSecret = "super-secret"
	assert.NotContains(t, cfg.String(), "super-secret")
	assert.Contains(t, cfg.String(), cfg.Addr())
}
