package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/config"
	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

type ProfileService interface {
	ListProfiles(ctx context.Context) (*models.ProfilesResponse, *models.ErrDetails)
	GetProfile(ctx context.Context, id string) (*models.ProfileResponse, *models.ErrDetails)
	UpsertProfile(ctx context.Context, req models.UpsertProfileRequest) (*models.ProfileResponse, *models.ErrDetails)
}

type BacklogService interface {
	ListBacklog(
		ctx context.Context, filter models.BacklogFilter, sort models.Sort,
	) (*models.ListBacklogResponse, *models.ErrDetails)
	GetBacklogItem(ctx context.Context, id string) (*models.BacklogItemResponse, *models.ErrDetails)
	CreateBacklogItem(
		ctx context.Context, userID string, req models.CreateBacklogItemRequest,
	) (*models.BacklogItemResponse, *models.ErrDetails)
	UpdateBacklogItem(
		ctx context.Context, userID string, req models.UpdateBacklogItemRequest,
	) (*models.BacklogItemResponse, *models.ErrDetails)
	DeleteBacklogItem(ctx context.Context, userID string, req models.DeleteRequest) *models.ErrDetails
	BulkUpdateBacklogStatus(
		ctx context.Context, userID string, req models.BulkBacklogStatusRequest,
	) (*models.BulkUpdateResponse, *models.ErrDetails)
	ReorderBacklog(ctx context.Context, req models.ReorderBacklogRequest) (*models.ReorderResponse, *models.ErrDetails)
	MoveBacklogItem(ctx context.Context, req models.MoveBacklogItemRequest) (*models.ReorderResponse, *models.ErrDetails)
}

type BugService interface {
	ListBugs(ctx context.Context, filter models.BugFilter, sort models.Sort) (*models.ListBugsResponse, *models.ErrDetails)
	GetBug(ctx context.Context, id string) (*models.BugResponse, *models.ErrDetails)
	CreateBug(ctx context.Context, userID string, req models.CreateBugRequest) (*models.BugResponse, *models.ErrDetails)
	UpdateBug(ctx context.Context, userID string, req models.UpdateBugRequest) (*models.BugResponse, *models.ErrDetails)
	DeleteBug(ctx context.Context, userID string, req models.DeleteRequest) *models.ErrDetails
	BulkUpdateBugStatus(
		ctx context.Context, userID string, req models.BulkBugStatusRequest,
	) (*models.BulkUpdateResponse, *models.ErrDetails)
}

type KPIService interface {
	ListKPIs(ctx context.Context, category string) (*models.KPIsResponse, *models.ErrDetails)
	UpdateKPI(ctx context.Context, userID string, req models.UpdateKPIRequest) (*models.KPIResponse, *models.ErrDetails)
	PendingKPIUpdates() *models.PendingUpdatesResponse
	KPIOverview(ctx context.Context) (*models.KPIOverview, *models.ErrDetails)
	KPIGoals(ctx context.Context) ([]models.GoalProgress, *models.ErrDetails)
	KPICategories(ctx context.Context) ([]models.CategoryStats, *models.ErrDetails)
	KPITrends(ctx context.Context, req models.TrendRequest) (*models.TrendsResponse, *models.ErrDetails)
}

type ActivityService interface {
	ListActivities(ctx context.Context, limit int) (*models.ActivitiesResponse, *models.ErrDetails)
}

type StatisticsService interface {
	GetDashboardStatistics(ctx context.Context) (*models.DashboardStats, *models.ErrDetails)
}

type DashboardService interface {
	ProfileService
	BacklogService
	BugService
	KPIService
	ActivityService
	StatisticsService
}

// Realtime serves the websocket endpoint and answers presence queries.
type Realtime interface {
	http.Handler
	Presence(excludeUserID string) []models.Presence
}

type server struct {
	mux      *http.ServeMux
	service  DashboardService
	realtime Realtime
}

func newServer(service DashboardService, realtime Realtime) *server {
	s := &server{
		mux:      http.NewServeMux(),
		service:  service,
		realtime: realtime,
	}
	s.registerHandlers()

	return s
}

func StartServer(cfg *config.Config, service DashboardService, realtime Realtime) *http.Server {
	server := newServer(service, realtime)

	const defaultTimeout = 5 * time.Second
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.mux,
		ReadHeaderTimeout: defaultTimeout,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	return httpServer
}

func (s *server) registerHandlers() {
	s.mux.Handle("GET /health", logsMiddleware(s.HealthHandler))

	s.mux.Handle("GET /profiles/list", logsMiddleware(s.ListProfilesHandler))
	s.mux.Handle("GET /profiles/get", logsMiddleware(s.GetProfileHandler))
	s.mux.Handle("POST /profiles/upsert", logsMiddleware(s.UpsertProfileHandler))

	s.mux.Handle("GET /backlog/list", logsMiddleware(s.ListBacklogHandler))
	s.mux.Handle("GET /backlog/get", logsMiddleware(s.GetBacklogItemHandler))
	s.mux.Handle("POST /backlog/create", logsMiddleware(s.CreateBacklogItemHandler))
	s.mux.Handle("POST /backlog/update", logsMiddleware(s.UpdateBacklogItemHandler))
	s.mux.Handle("POST /backlog/delete", logsMiddleware(s.DeleteBacklogItemHandler))
	s.mux.Handle("POST /backlog/bulkStatus", logsMiddleware(s.BulkBacklogStatusHandler))
	s.mux.Handle("POST /backlog/reorder", logsMiddleware(s.ReorderBacklogHandler))
	s.mux.Handle("POST /backlog/move", logsMiddleware(s.MoveBacklogItemHandler))

	s.mux.Handle("GET /bugs/list", logsMiddleware(s.ListBugsHandler))
	s.mux.Handle("GET /bugs/get", logsMiddleware(s.GetBugHandler))
	s.mux.Handle("POST /bugs/create", logsMiddleware(s.CreateBugHandler))
	s.mux.Handle("POST /bugs/update", logsMiddleware(s.UpdateBugHandler))
	s.mux.Handle("POST /bugs/delete", logsMiddleware(s.DeleteBugHandler))
	s.mux.Handle("POST /bugs/bulkStatus", logsMiddleware(s.BulkBugStatusHandler))

	s.mux.Handle("GET /kpis/list", logsMiddleware(s.ListKPIsHandler))
	s.mux.Handle("POST /kpis/update", logsMiddleware(s.UpdateKPIHandler))
	s.mux.Handle("GET /kpis/pending", logsMiddleware(s.PendingKPIUpdatesHandler))
	s.mux.Handle("GET /kpis/overview", logsMiddleware(s.KPIOverviewHandler))
	s.mux.Handle("GET /kpis/goals", logsMiddleware(s.KPIGoalsHandler))
	s.mux.Handle("GET /kpis/categories", logsMiddleware(s.KPICategoriesHandler))
	s.mux.Handle("GET /kpis/trends", logsMiddleware(s.KPITrendsHandler))

	s.mux.Handle("GET /activities/list", logsMiddleware(s.ListActivitiesHandler))

	s.mux.Handle("GET /statistics/dashboard", logsMiddleware(s.GetDashboardStatisticsHandler))

	s.mux.Handle("GET /presence/list", logsMiddleware(s.ListPresenceHandler))
	s.mux.Handle("GET /realtime/ws", s.realtime)
}

func (s *server) mapServiceErrors(err string) int {
	switch err {
	case models.InvalidJSONErr, models.ValidationFailedErr:
		return http.StatusBadRequest
	case models.AlreadyExistsErr:
		return http.StatusConflict
	case models.NotFoundErr:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
