package transport

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zap.L().Info("request",
			zap.String("Method", r.Method),
			zap.String("URL", r.URL.String()),
			zap.String("User", callerID(r)),
		)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)

		duration := time.Since(start)
		zap.L().Info("response",
			zap.String("Method", r.Method),
			zap.String("URL", r.URL.String()),
			zap.Int("Status", rec.status),
			zap.Duration("completion time", duration),
		)
	})
}
