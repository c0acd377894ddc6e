package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziggy-data/investimento/internal/metrics"
)

func TestTelemetryData(t *testing.T) {
	registry := metrics.New()
	registry.Observe(telemetryRoutePrefix+"/simular", 0.1)
	registry.Observe(telemetryRoutePrefix+"/simular", 0.3)
	registry.Observe(telemetryRoutePrefix+"/perfil-risco/{clienteId}", 0.05)

	telemetry := NewTelemetryService(registry, nil, newTestLogger())
	data := telemetry.TelemetryData(context.Background())

	require.Len(t, data.Servicos, 6)

	porNome := make(map[string]int)
	for i, servico := range data.Servicos {
		porNome[servico.Nome] = i
	}

	simular := data.Servicos[porNome["simular-investimento"]]
	assert.Equal(t, uint64(2), simular.QuantidadeChamadas)
	assert.InDelta(t, 200.0, simular.MediaTempoRespostaMs, 0.01)

	perfil := data.Servicos[porNome["perfil-risco"]]
	assert.Equal(t, uint64(1), perfil.QuantidadeChamadas)

	// Эндпоинты без вызовов присутствуют с нулями
	historico := data.Servicos[porNome["simulacoes"]]
	assert.Equal(t, uint64(0), historico.QuantidadeChamadas)
	assert.Zero(t, historico.MediaTempoRespostaMs)

	hoje := time.Now().Format("2006-01-02")
	assert.Equal(t, hoje, data.Periodo.Fim)
	assert.NotEmpty(t, data.Periodo.Inicio)

	// Без клиента ставок справочная ставка отсутствует
	assert.Nil(t, data.TaxaReferencia)
}

func TestTelemetryDataWithKeyRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(keyRateResponseXML))
	}))
	defer server.Close()

	keyRate := NewKeyRateClient(newTestLogger())
	keyRate.endpoint = server.URL

	telemetry := NewTelemetryService(metrics.New(), keyRate, newTestLogger())
	data := telemetry.TelemetryData(context.Background())

	require.NotNil(t, data.TaxaReferencia)
	assert.True(t, data.TaxaReferencia.Equal(decimal.RequireFromString("10.50")))
}

func TestTelemetryDataKeyRateUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	keyRate := NewKeyRateClient(newTestLogger())
	keyRate.endpoint = server.URL

	telemetry := NewTelemetryService(metrics.New(), keyRate, newTestLogger())
	data := telemetry.TelemetryData(context.Background())

	// Недоступность сервиса ставок не ломает телеметрию
	require.Len(t, data.Servicos, 6)
	assert.Nil(t, data.TaxaReferencia)
}
