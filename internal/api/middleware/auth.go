package middleware

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/m04kA/Salon-BookingService/internal/api/handlers"
)

// Заголовок идентификации клиента
// Сервис работает за API-гейтвеем, который аутентифицирует клиента
// и пробрасывает его email в этом заголовке
const clientEmailHeader = "X-Client-Email"

type contextKey string

const clientEmailKey contextKey = "clientEmail"

const msgMissingClientEmail = "отсутствует или некорректен заголовок X-Client-Email"

// Auth извлекает email клиента из заголовка и кладет его в контекст
// Запросы без валидного email отклоняются
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := r.Header.Get(clientEmailHeader)
			if email == "" {
				logger.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, clientEmailHeader)
				handlers.RespondUnauthorized(w, msgMissingClientEmail)
				return
			}
			if _, err := mail.ParseAddress(email); err != nil {
				logger.Warn("%s %s - Invalid %s header: %v", r.Method, r.URL.Path, clientEmailHeader, err)
				handlers.RespondUnauthorized(w, msgMissingClientEmail)
				return
			}

			ctx := context.WithValue(r.Context(), clientEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientEmail возвращает email клиента из контекста
func GetClientEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(clientEmailKey).(string)
	return email, ok
}
