package transport

import (
	"net/http"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) ListKPIsHandler(w http.ResponseWriter, r *http.Request) {
	resp, errDetails := s.service.ListKPIs(r.Context(), r.URL.Query().Get("category"))
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) UpdateKPIHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateKPIRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.UpdateKPI(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) PendingKPIUpdatesHandler(w http.ResponseWriter, _ *http.Request) {
	s.respondWithJSON(w, http.StatusOK, s.service.PendingKPIUpdates())
}

func (s *server) KPIOverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, errDetails := s.service.KPIOverview(r.Context())
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, overview)
}

func (s *server) KPIGoalsHandler(w http.ResponseWriter, r *http.Request) {
	goals, errDetails := s.service.KPIGoals(r.Context())
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, models.GoalsResponse{Goals: goals})
}

func (s *server) KPICategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, errDetails := s.service.KPICategories(r.Context())
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, models.CategoriesResponse{Categories: categories})
}

func (s *server) KPITrendsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.TrendRequest{
		Range: q.Get("range"),
		From:  q.Get("from"),
		To:    q.Get("to"),
	}
	if req.Range == "" {
		req.Range = "30d"
	}

	resp, errDetails := s.service.KPITrends(r.Context(), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}
