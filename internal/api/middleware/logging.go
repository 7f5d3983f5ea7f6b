package middleware

import (
	"net/http"
	"time"
)

// Logging логирует каждый HTTP-запрос со статусом и длительностью
func Logging(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			requestID, _ := GetRequestID(r.Context())
			logger.Info("%s %s - %d (%s) request_id=%s",
				r.Method, r.URL.Path, recorder.status, time.Since(start), requestID)
		})
	}
}
