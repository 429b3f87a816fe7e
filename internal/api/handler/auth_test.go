package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"endgame/backend/internal/config"
	"endgame/backend/internal/logger"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "endgame-test",
		TokenTTL:  time.Hour,
	}
}

func newAuthHandler(auth config.AuthConfig) *Handler {
	return &Handler{auth: auth, log: logger.NewNop()}
}

func TestJWT_RoundTrip(t *testing.T) {
	h := newAuthHandler(testAuth())

	token, err := h.generateJWT("anon-1")
	require.NoError(t, err)

	anonID, err := h.validateAndGetAnonID(token)
	require.NoError(t, err)
	assert.Equal(t, "anon-1", anonID)
}

func TestJWT_Rejections(t *testing.T) {
	h := newAuthHandler(testAuth())

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := map[string]string{
		"wrong secret":   sign(jwt.MapClaims{"anon_id": "x", "exp": future, "iss": "endgame-test"}, "other"),
		"wrong issuer":   sign(jwt.MapClaims{"anon_id": "x", "exp": future, "iss": "someone-else"}, "test-secret"),
		"expired":        sign(jwt.MapClaims{"anon_id": "x", "exp": time.Now().Add(-time.Minute).Unix(), "iss": "endgame-test"}, "test-secret"),
		"no expiry":      sign(jwt.MapClaims{"anon_id": "x", "iss": "endgame-test"}, "test-secret"),
		"no anon id":     sign(jwt.MapClaims{"exp": future, "iss": "endgame-test"}, "test-secret"),
		"not a jwt":      "definitely-not-a-token",
		"unsigned token": "eyJhbGciOiJub25lIn0.eyJhbm9uX2lkIjoieCJ9.",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := h.validateAndGetAnonID(token)
			assert.Error(t, err)
		})
	}
}

func TestGetAnonID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAuthHandler(testAuth())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/anonid", nil)

	h.GetAnonID(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token  string `json:"token"`
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AnonID)

	anonID, err := h.validateAndGetAnonID(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.AnonID, anonID)
}
