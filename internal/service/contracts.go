package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ziggy-data/investimento/internal/model"
)

// ProductCatalog - интерфейс запросов к каталогу продуктов.
// Реализуется repository.ProductRepository.
type ProductCatalog interface {
	FindBestMatch(ctx context.Context, tipo string, valor decimal.Decimal, prazoMeses int) (*model.Product, error)
	FindByRiskTiers(ctx context.Context, riscos []string) ([]model.ProductDTO, error)
}

// SimulationStore - интерфейс хранилища записей симуляций.
// Реализуется repository.SimulationRepository.
type SimulationStore interface {
	Append(ctx context.Context, simulacao *model.Simulation) error
	AggregateByClient(ctx context.Context, clienteID int64) (*model.ClientAggregate, error)
	AggregateByProductAndDay(ctx context.Context) ([]model.AggregatedSimulation, error)
	AllHistory(ctx context.Context) ([]model.SimulationHistoryItem, error)
	HistoryByClient(ctx context.Context, clienteID int64) ([]model.InvestmentHistoryItem, error)
}
