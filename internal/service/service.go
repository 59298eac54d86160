package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/cache"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	SelectProfiles(ctx context.Context) ([]models.Profile, error)
	SelectProfile(ctx context.Context, id string) (models.Profile, error)
	UpsertProfile(ctx context.Context, req models.UpsertProfileRequest) (models.Profile, error)

	SelectBacklogItems(ctx context.Context, filter models.BacklogFilter) ([]models.BacklogItem, error)
	CountBacklogItems(ctx context.Context) (int, error)
	SelectBacklogItem(ctx context.Context, id string) (models.BacklogItem, error)
	InsertBacklogItem(ctx context.Context, req models.CreateBacklogItemRequest, createdBy string) (string, error)
	UpdateBacklogItem(ctx context.Context, req models.UpdateBacklogItemRequest) error
	DeleteBacklogItem(ctx context.Context, id string) (string, error)
	UpdateBacklogStatus(
		ctx context.Context, ids []string, status models.BacklogStatus,
	) ([]models.BacklogSummary, error)
	SelectBacklogOrder(ctx context.Context, tx pgx.Tx) ([]string, error)
	UpdateBacklogPositions(ctx context.Context, tx pgx.Tx, ids []string) error

	SelectBugs(ctx context.Context, filter models.BugFilter) ([]models.Bug, error)
	CountBugs(ctx context.Context) (int, error)
	SelectBug(ctx context.Context, id string) (models.Bug, error)
	InsertBug(ctx context.Context, req models.CreateBugRequest, createdBy string) (string, error)
	UpdateBug(ctx context.Context, req models.UpdateBugRequest) error
	DeleteBug(ctx context.Context, id string) (string, error)
	UpdateBugStatus(ctx context.Context, ids []string, status models.BugStatus) ([]models.BugSummary, error)

	SelectKPIs(ctx context.Context) ([]models.KPI, error)
	UpdateKPI(ctx context.Context, tx pgx.Tx, req models.UpdateKPIRequest) (models.KPI, error)
	InsertKPIHistory(ctx context.Context, tx pgx.Tx, point models.KPIHistoryPoint) error
	SelectKPIHistory(ctx context.Context, from, to time.Time) ([]models.KPIHistoryPoint, error)
	SnapshotKPIs(ctx context.Context) (int, error)

	InsertActivity(ctx context.Context, activity models.Activity) error
	SelectActivities(ctx context.Context, limit int) ([]models.Activity, error)

	SelectDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Presence reports who is connected right now.
type Presence interface {
	OnlineCount() int
}

type Cfg struct {
	ActivityLimit int `env:"ACTIVITY_LIMIT" env-default:"20"`
	CacheSize     int `env:"CACHE_SIZE"     env-default:"16"`
}

const (
	maxActivityLimit = 100

	profilesKey = "profiles"
	kpisKey     = "kpis"
)

type Service struct {
	cfg        Cfg
	repository Repository
	presence   Presence
	validate   *validator.Validate
	profiles   *cache.Collection[models.Profile]
	kpis       *cache.Collection[models.KPI]
	now        func() time.Time
}

func NewService(cfg Cfg, repo Repository, presence Presence) *Service {
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = 20
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 16
	}

	return &Service{
		cfg:        cfg,
		repository: repo,
		presence:   presence,
		validate:   newValidator(),
		profiles:   cache.NewCollection(cfg.CacheSize, func(p models.Profile) string { return p.ID }),
		kpis:       cache.NewCollection(cfg.CacheSize, func(k models.KPI) string { return k.ID }),
		now:        time.Now,
	}
}

var internalErr = &models.ErrDetails{
	Code:    models.InternalErr,
	Message: "service unavailable, try again later",
}

func mapRepositoryError(err error) *models.ErrDetails {
	if isDatabaseError(err) {
		zap.L().Error("server error", zap.Error(err), zap.String("type", "technical"))
		return internalErr
	}

	var businessErr *models.ErrDetails
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "unique violation"):
		businessErr = &models.ErrDetails{Code: models.AlreadyExistsErr, Message: "resource already exists"}
	case strings.Contains(errMsg, "foreign key violation"), strings.Contains(errMsg, "not found"):
		businessErr = &models.ErrDetails{Code: models.NotFoundErr, Message: "resource not found"}
	case strings.HasPrefix(errMsg, "invalid "):
		businessErr = &models.ErrDetails{Code: models.ValidationFailedErr, Message: errMsg}
	default:
		zap.L().Warn("unknown business error",
			zap.Error(err),
			zap.String("type", "business_unknown"),
		)
		return internalErr
	}

	zap.L().Info("business logic error", zap.Error(err), zap.String("type", "business"))

	return businessErr
}

func isDatabaseError(err error) bool {
	return strings.HasPrefix(err.Error(), "database:")
}

func validationError(op string, err error) *models.ErrDetails {
	zap.L().Info("business logic error",
		zap.Error(fmt.Errorf("%s: %w", op, err)),
		zap.String("type", "business"))

	return &models.ErrDetails{Code: models.ValidationFailedErr, Message: err.Error()}
}

// inTx runs fn inside a transaction and commits when it succeeds.
func (s *Service) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := s.repository.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			zap.L().Error("transaction rollback error",
				zap.Error(fmt.Errorf("%s: failed to rollback tx: %w", op, err)),
				zap.String("type", "technical"))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("database: %s: commit tx: %w", op, err)
	}

	return nil
}

// HandleChange drops cached collections of the changed table so the next
// read refetches them.
func (s *Service) HandleChange(event models.ChangeEvent) {
	switch event.Table {
	case models.TableProfiles:
		s.profiles.Invalidate(profilesKey)
	case models.TableKPIs:
		s.kpis.Invalidate(kpisKey)
	}
}

// ResetCaches drops every cached collection. Called whenever the change
// feed is (re)established, since events sent while it was down are lost.
func (s *Service) ResetCaches() {
	s.profiles.Purge()
	s.kpis.Purge()
}
