package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/BMS-SchedulingService/internal/api/handlers"
)

type ctxKey string

const businessIDKey ctxKey = "businessID"

// Auth проверяет заголовок X-Business-ID, который проставляет
// API gateway платформы после аутентификации тенанта, и кладет
// идентификатор бизнеса в контекст запроса.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Business-ID")
		if raw == "" {
			handlers.RespondUnauthorized(w, "заголовок X-Business-ID обязателен")
			return
		}

		businessID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || businessID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный X-Business-ID")
			return
		}

		ctx := context.WithValue(r.Context(), businessIDKey, businessID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetBusinessID возвращает идентификатор бизнеса из контекста запроса
func GetBusinessID(ctx context.Context) (int64, bool) {
	businessID, ok := ctx.Value(businessIDKey).(int64)
	return businessID, ok
}
