package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/metrics"
	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/service"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext возвращает аутентифицированную личность запроса.
// Личность разрешается один раз в middleware и дальше передаётся явно.
func IdentityFromContext(ctx context.Context) (*service.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*service.Identity)
	return identity, ok
}

// AuthMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
func AuthMiddleware(authService *service.AuthService, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем заголовок Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Отсутствует заголовок Authorization")
				writeError(w, logger, model.NewAuthError("Cabeçalho Authorization é obrigatório."))
				return
			}

			// Проверяем формат заголовка
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn("Неверный формат заголовка Authorization")
				writeError(w, logger, model.NewAuthError("Formato do cabeçalho Authorization inválido."))
				return
			}

			// Парсим токен и проверяем его валидность
			identity, err := authService.ParseToken(parts[1])
			if err != nil {
				logger.WithError(err).Warn("Неверный токен")
				writeError(w, logger, err)
				return
			}

			// Добавляем личность в контекст запроса
			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MetricsMiddleware фиксирует длительность обработки запроса по шаблону
// маршрута. Метрики читает обратно эндпоинт телеметрии.
func MetricsMiddleware(registry *metrics.Registry) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil {
				next.ServeHTTP(w, r)
				return
			}

			uri, err := route.GetPathTemplate()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			registry.Observe(uri, time.Since(start).Seconds())
		})
	}
}
