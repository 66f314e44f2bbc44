package app

import (
	"net/http"
	"time"

	"github.com/kilianp07/rentalfriction/core/logger"
	"github.com/kilianp07/rentalfriction/core/monitoring"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRecovery turns handler panics into 500 responses and reports them.
// Every request is logged at debug level.
func withRecovery(next http.Handler, log logger.Logger) http.Handler {
	log = logger.OrNop(log)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				monitoring.CapturePanic(v, map[string]string{"route": r.URL.Path})
				log.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, v)
				http.Error(rec, "internal error", http.StatusInternalServerError)
			}
			log.Debugw("request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}()
		next.ServeHTTP(rec, r)
	})
}
