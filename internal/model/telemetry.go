package model

import "github.com/shopspring/decimal"

// ServiceTelemetry - метрики одного эндпоинта API
type ServiceTelemetry struct {
	Nome                 string  `json:"nome"`
	QuantidadeChamadas   uint64  `json:"quantidade_chamadas"`
	MediaTempoRespostaMs float64 `json:"media_tempo_resposta_ms"`
}

// TelemetryPeriod - период сбора метрик (от старта приложения до текущего дня)
type TelemetryPeriod struct {
	Inicio string `json:"inicio"` // YYYY-MM-DD
	Fim    string `json:"fim"`    // YYYY-MM-DD
}

// TelemetryResponse - ответ эндпоинта телеметрии.
// Ключевая ставка добавляется только если её удалось получить.
type TelemetryResponse struct {
	Servicos       []ServiceTelemetry `json:"servicos"`
	Periodo        TelemetryPeriod    `json:"periodo"`
	TaxaReferencia *decimal.Decimal   `json:"taxa_referencia,omitempty"`
}
