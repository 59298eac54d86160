// Package jobs runs the periodic maintenance work of the dashboard.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Cfg struct {
	TZ               string        `env:"TZ"                      env-default:"UTC"`
	SweepSchedule    string        `env:"PRESENCE_SWEEP_SCHEDULE" env-default:"@every 30s"`
	SnapshotSchedule string        `env:"KPI_SNAPSHOT_SCHEDULE"   env-default:"0 0 * * *"`
	JobTimeout       time.Duration `env:"JOB_TIMEOUT"             env-default:"5m"`
}

// kpiSnapshotLockKey keeps replicas from snapshotting the same day twice.
const kpiSnapshotLockKey int64 = 7_040_105

type PresenceSweeper interface {
	Sweep()
}

type KPISnapshotter interface {
	SnapshotKPIs(ctx context.Context) (int, error)
}

type Locker interface {
	WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error)
}

type Scheduler struct {
	cfg      Cfg
	cron     *cron.Cron
	presence PresenceSweeper
	kpis     KPISnapshotter
	locker   Locker
}

func NewScheduler(cfg Cfg, presence PresenceSweeper, kpis KPISnapshotter, locker Locker) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.TZ, err)
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}

	s := &Scheduler{
		cfg:      cfg,
		cron:     cron.New(cron.WithLocation(loc)),
		presence: presence,
		kpis:     kpis,
		locker:   locker,
	}

	if _, err = s.cron.AddFunc(cfg.SweepSchedule, s.sweepPresence); err != nil {
		return nil, fmt.Errorf("invalid presence sweep schedule: %w", err)
	}
	if _, err = s.cron.AddFunc(cfg.SnapshotSchedule, s.snapshotKPIs); err != nil {
		return nil, fmt.Errorf("invalid kpi snapshot schedule: %w", err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		zap.L().Warn("cron: jobs still running at shutdown")
	}
}

func (s *Scheduler) sweepPresence() {
	s.presence.Sweep()
}

func (s *Scheduler) snapshotKPIs() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	locked, err := s.locker.WithAdvisoryLock(ctx, kpiSnapshotLockKey, func(ctx context.Context) error {
		n, err := s.kpis.SnapshotKPIs(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("cron: kpi snapshot recorded", zap.Int("kpis", n))
		return nil
	})

	switch {
	case err != nil:
		zap.L().Error("cron: kpi snapshot failed", zap.Error(err), zap.String("type", "technical"))
	case !locked:
		zap.L().Info("cron: kpi snapshot already running elsewhere")
	}
}
