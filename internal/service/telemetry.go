package service

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/metrics"
	"github.com/ziggy-data/investimento/internal/model"
)

// Префикс маршрутов, по которым собирается телеметрия
const telemetryRoutePrefix = "/api/v1/investimentos"

// TelemetryService собирает метрики эндпоинтов из реестра Prometheus:
// количество вызовов и среднее время ответа по шаблону маршрута.
type TelemetryService struct {
	metrics *metrics.Registry
	keyRate *KeyRateClient
	logger  *logrus.Logger
}

func NewTelemetryService(registry *metrics.Registry, keyRate *KeyRateClient, logger *logrus.Logger) *TelemetryService {
	return &TelemetryService{
		metrics: registry,
		keyRate: keyRate,
		logger:  logger,
	}
}

// TelemetryData возвращает метрики всех эндпоинтов API за период
// от старта приложения до текущего дня
func (s *TelemetryService) TelemetryData(ctx context.Context) *model.TelemetryResponse {
	servicos := []model.ServiceTelemetry{
		s.endpointStats("simular-investimento", telemetryRoutePrefix+"/simular"),
		s.endpointStats("simulacoes", telemetryRoutePrefix+"/simulacoes"),
		s.endpointStats("simulacoes-por-produto-dia", telemetryRoutePrefix+"/simulacoes/por-produto-dia"),
		s.endpointStats("perfil-risco", telemetryRoutePrefix+"/perfil-risco/{clienteId}"),
		s.endpointStats("produtos-recomendados", telemetryRoutePrefix+"/produtos-recomendados/{perfil}"),
		s.endpointStats("investimentos", telemetryRoutePrefix+"/investimentos/{clienteId}"),
	}

	response := &model.TelemetryResponse{
		Servicos: servicos,
		Periodo: model.TelemetryPeriod{
			Inicio: s.metrics.StartedAt().Format("2006-01-02"),
			Fim:    time.Now().Format("2006-01-02"),
		},
	}

	// Справочная ставка необязательна: недоступность сервиса ставок
	// не ломает телеметрию
	if s.keyRate != nil {
		if rate, err := s.keyRate.CurrentRate(ctx); err == nil {
			response.TaxaReferencia = &rate
		} else {
			s.logger.WithError(err).Warn("Справочная ставка недоступна для телеметрии")
		}
	}

	return response
}

// endpointStats читает метрики одного шаблона маршрута из реестра
func (s *TelemetryService) endpointStats(nome, uri string) model.ServiceTelemetry {
	count, meanMs := s.metrics.EndpointStats(uri)

	return model.ServiceTelemetry{
		Nome:                 nome,
		QuantidadeChamadas:   count,
		MediaTempoRespostaMs: math.Round(meanMs*100) / 100,
	}
}

// LogSummary пишет сводку телеметрии в лог (вызывается планировщиком)
func (s *TelemetryService) LogSummary(ctx context.Context) {
	data := s.TelemetryData(ctx)
	for _, servico := range data.Servicos {
		if servico.QuantidadeChamadas == 0 {
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"servico":  servico.Nome,
			"chamadas": servico.QuantidadeChamadas,
			"media_ms": servico.MediaTempoRespostaMs,
		}).Info("Сводка телеметрии")
	}
}
