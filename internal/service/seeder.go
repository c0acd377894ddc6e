package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/repository"
)

// CatalogSeeder наполняет каталог продуктов при первом старте.
// Каталог статичен: после сидирования ядро его не изменяет.
type CatalogSeeder struct {
	productRepo *repository.ProductRepository
	logger      *logrus.Logger
}

func NewCatalogSeeder(productRepo *repository.ProductRepository, logger *logrus.Logger) *CatalogSeeder {
	return &CatalogSeeder{productRepo: productRepo, logger: logger}
}

// SeedProducts создаёт продукты по умолчанию, если каталог пуст
func (s *CatalogSeeder) SeedProducts(ctx context.Context) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("ошибка проверки каталога продуктов: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, produto := range defaultProducts() {
		if err := s.productRepo.Create(ctx, &produto); err != nil {
			return fmt.Errorf("ошибка сидирования продукта '%s': %w", produto.Nome, err)
		}
	}

	s.logger.Info("Каталог продуктов по умолчанию создан")
	return nil
}

func defaultProducts() []model.Product {
	return []model.Product{
		{
			Nome:               "CDB Caixa 2026",
			Tipo:               "CDB",
			RentabilidadeAnual: decimal.NewFromFloat(0.12),
			Risco:              model.RiscoBaixo,
			ValorMinimo:        decimal.NewFromInt(500),
			PrazoMinimoMeses:   3,
		},
		{
			Nome:               "CDB Caixa Prefixado",
			Tipo:               "CDB",
			RentabilidadeAnual: decimal.NewFromFloat(0.135),
			Risco:              model.RiscoModerado,
			ValorMinimo:        decimal.NewFromInt(5000),
			PrazoMinimoMeses:   12,
		},
		{
			Nome:               "LCI Habitação",
			Tipo:               "LCI",
			RentabilidadeAnual: decimal.NewFromFloat(0.10),
			Risco:              model.RiscoBaixo,
			ValorMinimo:        decimal.NewFromInt(1000),
			PrazoMinimoMeses:   6,
		},
		{
			Nome:               "LCI Premium",
			Tipo:               "LCI",
			RentabilidadeAnual: decimal.NewFromFloat(0.115),
			Risco:              model.RiscoModerado,
			ValorMinimo:        decimal.NewFromInt(10000),
			PrazoMinimoMeses:   12,
		},
		{
			Nome:               "Fundo Multimercado",
			Tipo:               "Fundo",
			RentabilidadeAnual: decimal.NewFromFloat(0.18),
			Risco:              model.RiscoAlto,
			ValorMinimo:        decimal.NewFromInt(1000),
			PrazoMinimoMeses:   1,
		},
		{
			Nome:               "Fundo Ações Alavancado",
			Tipo:               "Fundo",
			RentabilidadeAnual: decimal.NewFromFloat(0.32),
			Risco:              model.RiscoAlto,
			ValorMinimo:        decimal.NewFromInt(5000),
			PrazoMinimoMeses:   6,
		},
	}
}
