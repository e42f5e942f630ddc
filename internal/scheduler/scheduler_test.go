package scheduler

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(nil, nil, log.New(io.Discard, "", 0))
}

func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Start())
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.ScheduleNightlyRecompute("not a cron expression", time.Minute))
	assert.Error(t, s.ScheduleTrendingBaseline("also bad"))
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleNightlyRecompute("0 3 * * *", time.Minute))
	require.NoError(t, s.ScheduleFeedPolling(300))
	require.NoError(t, s.ScheduleTrendingBaseline("0 4 * * 1"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Len(t, s.Entries(), 3)
	assert.False(t, s.GetNextRun().IsZero())

	// Double start fails, scheduling while running fails.
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleFeedPolling(60))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	// Stopping twice is a no-op.
	require.NoError(t, s.Stop())
}

func TestFeedPollingIntervalFloor(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleFeedPolling(1))
	require.NoError(t, s.Start())
	defer s.Stop()

	next := s.GetNextRun()
	assert.True(t, next.After(time.Now().Add(2*time.Second)))
}
