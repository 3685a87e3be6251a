package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"emissionsdash/internal/metrics"
)

// RequestIDHeader carries the request id in requests and responses
const RequestIDHeader = "X-Request-ID"

var knownRoutes = map[string]bool{
	"/":            true,
	"/health":      true,
	"/metrics":     true,
	"/api/options": true,
	"/api/init":    true,
	"/api/update":  true,
	"/api/chart":   true,
	"/export/png":  true,
	"/export/html": true,
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLogging tags each request with an id, logs it on completion and counts it
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if !knownRoutes[route] {
			route = "other"
		}
		metrics.HTTPRequest(route, rec.status)

		fields := map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if rec.status >= http.StatusInternalServerError {
			s.log.Warn("request failed", fields)
			return
		}
		s.log.Debug("request completed", fields)
	})
}
