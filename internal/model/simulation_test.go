package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() *Product {
	return &Product{
		ID:                 1,
		Nome:               "CDB Caixa 2026",
		Tipo:               "CDB",
		RentabilidadeAnual: decimal.RequireFromString("0.12"),
		Risco:              RiscoBaixo,
		ValorMinimo:        decimal.NewFromInt(500),
		PrazoMinimoMeses:   3,
	}
}

func TestNewSimulation(t *testing.T) {
	simulacao, err := NewSimulation(42, testProduct(), decimal.NewFromInt(10000), 12, decimal.RequireFromString("11200.00"))
	require.NoError(t, err)

	assert.NotEqual(t, simulacao.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, int64(42), simulacao.ClienteID)
	assert.Equal(t, 12, simulacao.PrazoMeses)

	// Метка времени усекается до целых секунд
	assert.Zero(t, simulacao.DataSimulacao.Nanosecond())
	assert.WithinDuration(t, time.Now().UTC(), simulacao.DataSimulacao, 2*time.Second)
}

func TestNewSimulationInvalid(t *testing.T) {
	_, err := NewSimulation(0, testProduct(), decimal.NewFromInt(10000), 12, decimal.NewFromInt(11200))
	assert.Error(t, err)

	_, err = NewSimulation(42, nil, decimal.NewFromInt(10000), 12, decimal.NewFromInt(11200))
	assert.Error(t, err)
}

func TestSimulationRequestValidate(t *testing.T) {
	valid := SimulationRequest{
		ClienteID:   42,
		Valor:       decimal.NewFromInt(10000),
		PrazoMeses:  12,
		TipoProduto: "CDB",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(r *SimulationRequest)
		message string
	}{
		{
			name:    "cliente ausente",
			mutate:  func(r *SimulationRequest) { r.ClienteID = 0 },
			message: "O ID do cliente é obrigatório.",
		},
		{
			name:    "valor abaixo do piso",
			mutate:  func(r *SimulationRequest) { r.Valor = decimal.RequireFromString("99.99") },
			message: "O valor mínimo para simulação é R$ 100,00.",
		},
		{
			name:    "prazo zero",
			mutate:  func(r *SimulationRequest) { r.PrazoMeses = 0 },
			message: "O prazo mínimo é de 1 mês.",
		},
		{
			name:    "tipo em branco",
			mutate:  func(r *SimulationRequest) { r.TipoProduto = "   " },
			message: "O tipo do produto não pode estar em branco.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid
			tt.mutate(&request)

			err := request.Validate()
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestSimulationRequestValidateFloorBoundary(t *testing.T) {
	// Ровно 100.00 и ровно 1 месяц проходят
	request := SimulationRequest{
		ClienteID:   1,
		Valor:       decimal.RequireFromString("100.00"),
		PrazoMeses:  1,
		TipoProduto: "LCI",
	}
	assert.NoError(t, request.Validate())
}
