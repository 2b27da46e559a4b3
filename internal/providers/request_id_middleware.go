package providers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogMiddleware tags every request with an ID (reusing a valid incoming
// one) and writes an access line to the GET or POST log.
func RequestLogMiddleware(logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s %s -> %d in %s",
			id, r.Method, r.URL.RequestURI(), sw.status, time.Since(start))
	})
}
