package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/msp993/backlog-zenith-project/internal/models"
	"go.uber.org/zap"
)

// userHeader carries the id of the authenticated caller, set by the gateway.
const userHeader = "X-User-ID"

func callerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userHeader))
}

func (s *server) respondWithError(w http.ResponseWriter, code int, err models.ErrDetails) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)
	resp := models.ErrorResponse{
		Error: err,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("failed to encode JSON for response", zap.Error(err))
	}
}

func (s *server) respondWithJSON(w http.ResponseWriter, code int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("failed to encode JSON for response", zap.Error(err))
	}
}

func (s *server) respondWithServiceError(w http.ResponseWriter, err *models.ErrDetails) {
	s.respondWithError(w, s.mapServiceErrors(err.Code), *err)
}

// decodeBody reads the JSON request body into dst. It writes the error
// response itself and reports false when the body is malformed.
func (s *server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := r.Body
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		errDetails := models.ErrDetails{
			Code:    models.InvalidJSONErr,
			Message: fmt.Sprintf("failed to decode json: %v", err),
		}
		s.respondWithError(w, http.StatusBadRequest, errDetails)
		return false
	}

	return true
}

// requireQuery returns the named query parameter or writes a validation
// error when it is missing.
func (s *server) requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		errDetails := models.ErrDetails{
			Code:    models.ValidationFailedErr,
			Message: fmt.Sprintf("missing %s parameter", name),
		}
		s.respondWithError(w, http.StatusBadRequest, errDetails)
		return "", false
	}

	return value, true
}

func sortFromQuery(r *http.Request) models.Sort {
	q := r.URL.Query()
	return models.Sort{
		Field:     models.SortField(strings.ToLower(q.Get("sort"))),
		Direction: models.SortDirection(strings.ToLower(q.Get("order"))),
	}
}

func (s *server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	s.respondWithJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}
