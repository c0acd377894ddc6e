package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
)

// APIError - единый формат ответа об ошибке
type APIError struct {
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// writeJSON сериализует ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError сопоставляет ошибку приложения со структурированным HTTP
// ответом. Неожиданные ошибки отдаются клиенту без деталей; полная
// информация попадает только во внутренний лог.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, APIError{
			Message: "Erro de Validação",
			Details: []string{validationErr.Message},
		})
		return
	}

	var businessErr *model.BusinessError
	if errors.As(err, &businessErr) {
		writeJSON(w, http.StatusBadRequest, APIError{
			Message: "Erro na Regra de Negócio",
			Details: []string{businessErr.Message},
		})
		return
	}

	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		writeJSON(w, http.StatusUnauthorized, APIError{
			Message: "Autenticação Falhou",
			Details: []string{authErr.Message},
		})
		return
	}

	logger.WithError(err).Error("Необработанная ошибка запроса")
	writeJSON(w, http.StatusInternalServerError, APIError{
		Message: "Erro Interno do Servidor",
		Details: []string{"Ocorreu um erro inesperado."},
	})
}

// NotFoundHandler возвращает структурированный 404 с указанием пути
func NotFoundHandler(logger *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.WithField("path", r.URL.Path).Warn("Запрос к несуществующему маршруту")
		writeJSON(w, http.StatusNotFound, APIError{
			Message: "Caminho Não Encontrado",
			Details: []string{fmt.Sprintf("O recurso solicitado na URL '%s' não existe.", r.URL.Path)},
		})
	})
}
