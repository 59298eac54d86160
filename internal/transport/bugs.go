package transport

import (
	"net/http"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) ListBugsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BugFilter{
		Status:   q.Get("status"),
		Impact:   q.Get("impact"),
		Assignee: q.Get("assignee"),
		Search:   q.Get("search"),
	}

	resp, errDetails := s.service.ListBugs(r.Context(), filter, sortFromQuery(r))
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) GetBugHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireQuery(w, r, "id")
	if !ok {
		return
	}

	resp, errDetails := s.service.GetBug(r.Context(), id)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) CreateBugHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBugRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.CreateBug(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, resp)
}

func (s *server) UpdateBugHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBugRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.UpdateBug(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) DeleteBugHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if errDetails := s.service.DeleteBug(r.Context(), callerID(r), req); errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, models.DeletedResponse{ID: req.ID})
}

func (s *server) BulkBugStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.BulkBugStatusRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.BulkUpdateBugStatus(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}
