package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/service"
)

// InvestmentHandler обрабатывает запросы симуляций, рекомендаций и телеметрии
type InvestmentHandler struct {
	investmentService     *service.InvestmentService
	recommendationService *service.RecommendationService
	telemetryService      *service.TelemetryService
	logger                *logrus.Logger
}

func NewInvestmentHandler(
	investmentService *service.InvestmentService,
	recommendationService *service.RecommendationService,
	telemetryService *service.TelemetryService,
	logger *logrus.Logger,
) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService:     investmentService,
		recommendationService: recommendationService,
		telemetryService:      telemetryService,
		logger:                logger,
	}
}

// RegisterRoutes регистрирует маршруты инвестиционного API
func (h *InvestmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/simular", h.Simulate).Methods("POST")
	router.HandleFunc("/simulacoes", h.SimulationHistory).Methods("GET")
	router.HandleFunc("/simulacoes/por-produto-dia", h.AggregatedSimulations).Methods("GET")
	router.HandleFunc("/telemetria", h.Telemetry).Methods("GET")
	router.HandleFunc("/perfil-risco/{clienteId}", h.RiskProfile).Methods("GET")
	router.HandleFunc("/produtos-recomendados/{perfil}", h.RecommendedProducts).Methods("GET")
	router.HandleFunc("/investimentos/{clienteId}", h.InvestmentHistory).Methods("GET")
}

// Simulate обрабатывает запрос симуляции инвестиции.
// Ответ возвращается сразу после расчёта: запись в базу выполняется в фоне.
func (h *InvestmentHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var request model.SimulationRequest

	// Декодируем входные данные
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос симуляции")
		writeError(w, h.logger, model.NewValidationError("Formato de requisição inválido."))
		return
	}

	// Валидация до запуска бизнес-логики
	if err := request.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if identity, ok := IdentityFromContext(r.Context()); ok {
		h.logger.WithFields(logrus.Fields{
			"user_id":    identity.UserID,
			"cliente_id": request.ClienteID,
		}).Debug("Запрос симуляции от аутентифицированного пользователя")
	}

	response, err := h.investmentService.SimulateAndValidate(r.Context(), request)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// SimulationHistory возвращает полную историю симуляций
func (h *InvestmentHandler) SimulationHistory(w http.ResponseWriter, r *http.Request) {
	historico, err := h.investmentService.SimulationHistory(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if historico == nil {
		historico = []model.SimulationHistoryItem{}
	}
	writeJSON(w, http.StatusOK, historico)
}

// AggregatedSimulations возвращает агрегаты симуляций по продукту и дню
func (h *InvestmentHandler) AggregatedSimulations(w http.ResponseWriter, r *http.Request) {
	agregados, err := h.investmentService.AggregatedSimulations(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if agregados == nil {
		agregados = []model.AggregatedSimulation{}
	}
	writeJSON(w, http.StatusOK, agregados)
}

// Telemetry возвращает метрики API
func (h *InvestmentHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.telemetryService.TelemetryData(r.Context()))
}

// RiskProfile возвращает рассчитанный профиль риска клиента
func (h *InvestmentHandler) RiskProfile(w http.ResponseWriter, r *http.Request) {
	clienteID, err := parseClienteID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	perfil, err := h.recommendationService.CalculateRiskProfile(r.Context(), clienteID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, perfil)
}

// RecommendedProducts возвращает продукты, рекомендованные для профиля риска
func (h *InvestmentHandler) RecommendedProducts(w http.ResponseWriter, r *http.Request) {
	perfil := mux.Vars(r)["perfil"]

	produtos, err := h.recommendationService.RecommendProducts(r.Context(), perfil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if produtos == nil {
		produtos = []model.ProductDTO{}
	}
	writeJSON(w, http.StatusOK, produtos)
}

// InvestmentHistory возвращает историю инвестиций клиента
func (h *InvestmentHandler) InvestmentHistory(w http.ResponseWriter, r *http.Request) {
	clienteID, err := parseClienteID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	historico, err := h.investmentService.InvestmentHistory(r.Context(), clienteID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if historico == nil {
		historico = []model.InvestmentHistoryItem{}
	}
	writeJSON(w, http.StatusOK, historico)
}

// parseClienteID извлекает идентификатор клиента из пути запроса
func parseClienteID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["clienteId"]
	clienteID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || clienteID <= 0 {
		return 0, model.NewValidationError(fmt.Sprintf(
			"O parâmetro de URL 'clienteId' está no formato errado. Era esperado um número positivo, mas foi recebido: '%s'.", raw,
		))
	}
	return clienteID, nil
}
