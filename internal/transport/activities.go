package transport

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil {
			errDetails := models.ErrDetails{
				Code:    models.ValidationFailedErr,
				Message: fmt.Sprintf("invalid limit %q", raw),
			}
			s.respondWithError(w, http.StatusBadRequest, errDetails)
			return
		}
	}

	resp, errDetails := s.service.ListActivities(r.Context(), limit)
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, resp)
}
