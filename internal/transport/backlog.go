package transport

import (
	"net/http"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) ListBacklogHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BacklogFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Assignee: q.Get("assignee"),
		Search:   q.Get("search"),
	}

	resp, errDetails := s.service.ListBacklog(r.Context(), filter, sortFromQuery(r))
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) GetBacklogItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireQuery(w, r, "id")
	if !ok {
		return
	}

	resp, errDetails := s.service.GetBacklogItem(r.Context(), id)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) CreateBacklogItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBacklogItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.CreateBacklogItem(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, resp)
}

func (s *server) UpdateBacklogItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBacklogItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.UpdateBacklogItem(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) DeleteBacklogItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if errDetails := s.service.DeleteBacklogItem(r.Context(), callerID(r), req); errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, models.DeletedResponse{ID: req.ID})
}

func (s *server) BulkBacklogStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.BulkBacklogStatusRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.BulkUpdateBacklogStatus(r.Context(), callerID(r), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) ReorderBacklogHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderBacklogRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.ReorderBacklog(r.Context(), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) MoveBacklogItemHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MoveBacklogItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.MoveBacklogItem(r.Context(), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}
