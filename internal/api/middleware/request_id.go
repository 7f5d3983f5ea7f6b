package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Заголовок сквозного идентификатора запроса
const requestIDHeader = "X-Request-ID"

const requestIDKey contextKey = "requestId"

// RequestID проставляет идентификатор запроса
// Если клиент прислал свой X-Request-ID, он сохраняется для сквозной трассировки
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID возвращает идентификатор запроса из контекста
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}
