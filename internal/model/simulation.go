package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulation - запись о выполненной симуляции инвестиции.
// После создания запись не изменяется; ядро системы её не удаляет.
type Simulation struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ClienteID      int64           `json:"cliente_id" db:"cliente_id"`
	Produto        *Product        `json:"produto"`
	ValorInvestido decimal.Decimal `json:"valor_investido" db:"valor_investido"`
	ValorFinal     decimal.Decimal `json:"valor_final" db:"valor_final"`
	PrazoMeses     int             `json:"prazo_meses" db:"prazo_meses"`
	DataSimulacao  time.Time       `json:"data_simulacao" db:"data_simulacao"`
}

// NewSimulation создаёт запись симуляции в валидном состоянии.
// Идентификатор клиента и продукт обязательны, временная метка
// усекается до целых секунд в момент создания.
func NewSimulation(clienteID int64, produto *Product, valorInvestido decimal.Decimal, prazoMeses int, valorFinal decimal.Decimal) (*Simulation, error) {
	if clienteID <= 0 {
		return nil, fmt.Errorf("cliente_id is required")
	}
	if produto == nil {
		return nil, fmt.Errorf("produto is required")
	}

	return &Simulation{
		ID:             uuid.New(),
		ClienteID:      clienteID,
		Produto:        produto,
		ValorInvestido: valorInvestido,
		ValorFinal:     valorFinal,
		PrazoMeses:     prazoMeses,
		DataSimulacao:  time.Now().UTC().Truncate(time.Second),
	}, nil
}

// SimulationRequest - входные данные запроса симуляции
type SimulationRequest struct {
	ClienteID   int64           `json:"cliente_id" validate:"required,gt=0"`
	Valor       decimal.Decimal `json:"valor" validate:"required"`
	PrazoMeses  int             `json:"prazo_meses" validate:"required,gte=1"`
	TipoProduto string          `json:"tipo_produto" validate:"required"`
}

// Абсолютный минимум суммы симуляции
var minSimulationAmount = decimal.NewFromInt(100)

// Validate проверяет входные данные до запуска бизнес-логики
func (r *SimulationRequest) Validate() error {
	if r.ClienteID <= 0 {
		return NewValidationError("O ID do cliente é obrigatório.")
	}
	if r.Valor.LessThan(minSimulationAmount) {
		return NewValidationError("O valor mínimo para simulação é R$ 100,00.")
	}
	if r.PrazoMeses < 1 {
		return NewValidationError("O prazo mínimo é de 1 mês.")
	}
	if strings.TrimSpace(r.TipoProduto) == "" {
		return NewValidationError("O tipo do produto não pode estar em branco.")
	}
	return nil
}

// SimulationResult - финансовый результат симуляции
type SimulationResult struct {
	ValorFinal           decimal.Decimal `json:"valor_final"`
	RentabilidadeEfetiva decimal.Decimal `json:"rentabilidade_efetiva"`
	PrazoMeses           int             `json:"prazo_meses"`
}

// SimulationResponse - ответ эндпоинта симуляции
type SimulationResponse struct {
	ProdutoValidado    ProductDTO       `json:"produto_validado"`
	ResultadoSimulacao SimulationResult `json:"resultado_simulacao"`
	DataSimulacao      time.Time        `json:"data_simulacao"`
}

// SimulationHistoryItem - элемент полной истории симуляций
type SimulationHistoryItem struct {
	ID             uuid.UUID       `json:"id"`
	ClienteID      int64           `json:"cliente_id"`
	Produto        string          `json:"produto"`
	ValorInvestido decimal.Decimal `json:"valor_investido"`
	ValorFinal     decimal.Decimal `json:"valor_final"`
	PrazoMeses     int             `json:"prazo_meses"`
	DataSimulacao  time.Time       `json:"data_simulacao"`
}

// InvestmentHistoryItem - элемент истории инвестиций клиента
type InvestmentHistoryItem struct {
	ID            uuid.UUID       `json:"id"`
	Tipo          string          `json:"tipo"`
	Valor         decimal.Decimal `json:"valor"`
	Rentabilidade decimal.Decimal `json:"rentabilidade"`
	Data          string          `json:"data"` // YYYY-MM-DD
}

// AggregatedSimulation - агрегат симуляций по продукту и дню
type AggregatedSimulation struct {
	Produto              string          `json:"produto"`
	Data                 string          `json:"data"` // YYYY-MM-DD
	QuantidadeSimulacoes int64           `json:"quantidade_simulacoes"`
	MediaValorFinal      decimal.Decimal `json:"media_valor_final"`
}

// ClientAggregate - агрегированные данные истории клиента для расчёта профиля риска
type ClientAggregate struct {
	Contagem   int64
	MediaValor decimal.Decimal
	MediaRisco decimal.Decimal
}
