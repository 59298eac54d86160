package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/metrics"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *Service) kpiList(ctx context.Context) ([]models.KPI, error) {
	if kpis, ok := s.kpis.Get(kpisKey); ok {
		return kpis, nil
	}

	kpis, err := s.repository.SelectKPIs(ctx)
	if err != nil {
		return nil, err
	}

	s.kpis.Set(kpisKey, kpis)
	return kpis, nil
}

// ListKPIs returns KPIs ordered by name, optionally limited to one category.
func (s *Service) ListKPIs(ctx context.Context, category string) (*models.KPIsResponse, *models.ErrDetails) {
	kpis, err := s.kpiList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if category = models.FilterValue(category); category != "" {
		filtered := make([]models.KPI, 0, len(kpis))
		for _, kpi := range kpis {
			if strings.EqualFold(metrics.CategoryOf(kpi), category) {
				filtered = append(filtered, kpi)
			}
		}
		kpis = filtered
	}

	return &models.KPIsResponse{KPIs: kpis}, nil
}

func applyKPIPatch(kpi *models.KPI, req models.UpdateKPIRequest) {
	if req.Name != nil {
		kpi.Name = *req.Name
	}
	if req.Description != nil {
		kpi.Description = req.Description
	}
	if req.Category != nil {
		kpi.Category = req.Category
	}
	if req.Unit != nil {
		kpi.Unit = req.Unit
	}
	if req.CurrentValue != nil {
		kpi.CurrentValue = req.CurrentValue
	}
	if req.TargetValue != nil {
		kpi.TargetValue = req.TargetValue
	}
}

// UpdateKPI applies the patch to the cached list before the write lands.
// A failed write invalidates the cached list. Value changes are appended
// to the KPI history in the same transaction.
func (s *Service) UpdateKPI(
	ctx context.Context, userID string, req models.UpdateKPIRequest,
) (*models.KPIResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("UpdateKPI", err)
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return nil, validationError("UpdateKPI", errors.New("no fields to update"))
	}

	var stored models.KPI
	patch := func(kpi *models.KPI) { applyKPIPatch(kpi, req) }
	write := func(ctx context.Context) error {
		return s.inTx(ctx, "UpdateKPI", func(tx pgx.Tx) error {
			var err error
			stored, err = s.repository.UpdateKPI(ctx, tx, req)
			if err != nil {
				return err
			}

			if (req.CurrentValue == nil && req.TargetValue == nil) || stored.CurrentValue == nil {
				return nil
			}

			return s.repository.InsertKPIHistory(ctx, tx, models.KPIHistoryPoint{
				KPIID:  stored.ID,
				Value:  *stored.CurrentValue,
				Target: stored.TargetValue,
			})
		})
	}

	if err := s.kpis.Mutate(ctx, kpisKey, req.ID, patch, write); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.logActivity(ctx, userID, models.ActionUpdated, models.EntityKPI, stored.ID, stored.Name, fields...)

	return &models.KPIResponse{KPI: stored}, nil
}

func (s *Service) PendingKPIUpdates() *models.PendingUpdatesResponse {
	return &models.PendingUpdatesResponse{Pending: s.kpis.Pending()}
}

func (s *Service) KPIOverview(ctx context.Context) (*models.KPIOverview, *models.ErrDetails) {
	kpis, err := s.kpiList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	overview := metrics.Overview(kpis)
	return &overview, nil
}

func (s *Service) KPIGoals(ctx context.Context) ([]models.GoalProgress, *models.ErrDetails) {
	kpis, err := s.kpiList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return metrics.Goals(kpis), nil
}

func (s *Service) KPICategories(ctx context.Context) ([]models.CategoryStats, *models.ErrDetails) {
	kpis, err := s.kpiList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return metrics.Categories(kpis), nil
}

func (s *Service) KPITrends(ctx context.Context, req models.TrendRequest) (*models.TrendsResponse, *models.ErrDetails) {
	if err := s.check(req); err != nil {
		return nil, validationError("KPITrends", err)
	}

	from, to, err := metrics.Window(req, s.now())
	if err != nil {
		return nil, validationError("KPITrends", err)
	}

	kpis, err := s.kpiList(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	history, err := s.repository.SelectKPIHistory(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return &models.TrendsResponse{
		From:   metrics.FormatDate(from),
		To:     metrics.FormatDate(to),
		Trends: metrics.Trends(kpis, history, from, to),
	}, nil
}

// SnapshotKPIs appends the current value of every KPI to its history.
func (s *Service) SnapshotKPIs(ctx context.Context) (int, error) {
	return s.repository.SnapshotKPIs(ctx)
}
