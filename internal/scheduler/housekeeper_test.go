package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"endgame/backend/internal/gamehub"
	"endgame/backend/internal/logger"
	"endgame/backend/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubHub struct {
	stats gamehub.Stats
	err   error
	calls atomic.Int32
}

func (s *stubHub) Stats(context.Context) (gamehub.Stats, error) {
	s.calls.Add(1)
	return s.stats, s.err
}

type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) ResetWaitingPool(ctx context.Context, playerIDs []string) error {
	return m.Called(ctx, playerIDs).Error(0)
}

func TestRunOnce_ReconcilesMirror(t *testing.T) {
	hub := &stubHub{stats: gamehub.Stats{Waiting: 2, WaitingPlayers: []string{"p1", "p2"}}}
	mirror := new(mockMirror)
	mirror.On("ResetWaitingPool", mock.Anything, []string{"p1", "p2"}).Return(nil).Once()

	h := scheduler.NewHousekeeper("@every 1m", hub, mirror, logger.NewNop())
	require.NoError(t, h.RunOnce(context.Background()))

	mirror.AssertExpectations(t)
}

func TestRunOnce_HubErrorSkipsMirror(t *testing.T) {
	hub := &stubHub{err: gamehub.ErrHubStopped}
	mirror := new(mockMirror)

	h := scheduler.NewHousekeeper("@every 1m", hub, mirror, logger.NewNop())
	err := h.RunOnce(context.Background())

	assert.ErrorIs(t, err, gamehub.ErrHubStopped)
	mirror.AssertNotCalled(t, "ResetWaitingPool", mock.Anything, mock.Anything)
}

func TestRunOnce_MirrorErrorIsReturned(t *testing.T) {
	hub := &stubHub{}
	mirror := new(mockMirror)
	mirror.On("ResetWaitingPool", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	h := scheduler.NewHousekeeper("@every 1m", hub, mirror, logger.NewNop())
	assert.Error(t, h.RunOnce(context.Background()))
}

func TestHousekeeper_RunsOnSchedule(t *testing.T) {
	hub := &stubHub{}
	h := scheduler.NewHousekeeper("@every 1s", hub, nil, logger.NewNop())

	require.NoError(t, h.Start(context.Background()))
	defer h.Stop()

	require.Eventually(t, func() bool { return hub.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestHousekeeper_BadSpec(t *testing.T) {
	h := scheduler.NewHousekeeper("not a spec", &stubHub{}, nil, logger.NewNop())
	assert.Error(t, h.Start(context.Background()))
}
