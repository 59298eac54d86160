package transport

import (
	"net/http"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

func (s *server) GetDashboardStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, errDetails := s.service.GetDashboardStatistics(r.Context())
	if errDetails != nil {
		s.respondWithServiceError(w, errDetails)
		return
	}

	s.respondWithJSON(w, http.StatusOK, stats)
}

// ListPresenceHandler lists online users. The caller is excluded unless
// another user id is passed in exclude.
func (s *server) ListPresenceHandler(w http.ResponseWriter, r *http.Request) {
	exclude := r.URL.Query().Get("exclude")
	if exclude == "" {
		exclude = callerID(r)
	}

	s.respondWithJSON(w, http.StatusOK, models.PresenceResponse{Users: s.realtime.Presence(exclude)})
}
