package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) Sweep() { s.calls++ }

type fakeSnapshotter struct {
	calls int
	err   error
}

func (f *fakeSnapshotter) SnapshotKPIs(context.Context) (int, error) {
	f.calls++
	return 3, f.err
}

type fakeLocker struct {
	held bool
	key  int64
}

func (l *fakeLocker) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	l.key = key
	if l.held {
		return false, nil
	}
	return true, fn(ctx)
}

func testCfg() Cfg {
	return Cfg{TZ: "UTC", SweepSchedule: "@every 30s", SnapshotSchedule: "0 0 * * *"}
}

func TestNewSchedulerRegistersJobs(t *testing.T) {
	s, err := NewScheduler(testCfg(), &countingSweeper{}, &fakeSnapshotter{}, &fakeLocker{})
	require.NoError(t, err)

	assert.Len(t, s.cron.Entries(), 2)
}

func TestNewSchedulerRejectsBadConfig(t *testing.T) {
	cfg := testCfg()
	cfg.TZ = "Mars/Olympus"
	_, err := NewScheduler(cfg, &countingSweeper{}, &fakeSnapshotter{}, &fakeLocker{})
	assert.Error(t, err)

	cfg = testCfg()
	cfg.SnapshotSchedule = "every day"
	_, err = NewScheduler(cfg, &countingSweeper{}, &fakeSnapshotter{}, &fakeLocker{})
	assert.Error(t, err)
}

func TestSnapshotRunsUnderLock(t *testing.T) {
	kpis := &fakeSnapshotter{}
	locker := &fakeLocker{}
	s, err := NewScheduler(testCfg(), &countingSweeper{}, kpis, locker)
	require.NoError(t, err)

	s.snapshotKPIs()
	assert.Equal(t, 1, kpis.calls)
	assert.Equal(t, kpiSnapshotLockKey, locker.key)

	locker.held = true
	s.snapshotKPIs()
	assert.Equal(t, 1, kpis.calls)
}

func TestSnapshotErrorIsContained(t *testing.T) {
	kpis := &fakeSnapshotter{err: errors.New("database: SnapshotKPIs: down")}
	s, err := NewScheduler(testCfg(), &countingSweeper{}, kpis, &fakeLocker{})
	require.NoError(t, err)

	assert.NotPanics(t, s.snapshotKPIs)
	assert.Equal(t, 1, kpis.calls)
}

func TestSweepPresence(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := NewScheduler(testCfg(), sweeper, &fakeSnapshotter{}, &fakeLocker{})
	require.NoError(t, err)

	s.sweepPresence()
	assert.Equal(t, 1, sweeper.calls)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(testCfg(), &countingSweeper{}, &fakeSnapshotter{}, &fakeLocker{})
	require.NoError(t, err)

	s.Start()
	s.Stop(context.Background())
}
