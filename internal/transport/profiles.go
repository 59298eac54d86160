package transport

import (
	"net/http"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) ListProfilesHandler(w http.ResponseWriter, r *http.Request) {
	resp, errDetails := s.service.ListProfiles(r.Context())
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireQuery(w, r, "id")
	if !ok {
		return
	}

	resp, errDetails := s.service.GetProfile(r.Context(), id)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *server) UpsertProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertProfileRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, errDetails := s.service.UpsertProfile(r.Context(), req)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}
