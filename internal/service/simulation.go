package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
)

// InvestmentService - оркестратор симуляции: валидация продукта, расчёт,
// создание записи, асинхронная персистентность, сборка ответа.
// Ответ возвращается клиенту до завершения записи в базу.
type InvestmentService struct {
	store       SimulationStore
	validation  *ProductValidationService
	persistence *SimulationPersistenceService
	logger      *logrus.Logger
}

func NewInvestmentService(
	store SimulationStore,
	validation *ProductValidationService,
	persistence *SimulationPersistenceService,
	logger *logrus.Logger,
) *InvestmentService {
	return &InvestmentService{
		store:       store,
		validation:  validation,
		persistence: persistence,
		logger:      logger,
	}
}

// SimulateAndValidate выполняет линейный сценарий симуляции.
// Ошибка валидации продукта прерывает сценарий до расчёта и персистентности.
func (s *InvestmentService) SimulateAndValidate(ctx context.Context, request model.SimulationRequest) (*model.SimulationResponse, error) {
	// 1. Валидация продукта (быстро - из кэша после прогрева)
	produto, err := s.validation.ValidateProduct(ctx, request)
	if err != nil {
		return nil, err
	}

	// 2. Расчёт (чистая функция, синхронно)
	resultado := calculateProjection(produto, request.Valor, request.PrazoMeses)

	// 3. Подготовка записи
	simulacao, err := model.NewSimulation(request.ClienteID, produto, request.Valor, request.PrazoMeses, resultado.ValorFinal)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи симуляции: %w", err)
	}

	// 4. Асинхронная персистентность: ответ не ждёт записи в базу.
	// Отказ переполненной очереди фиксируется в логе и не влияет на ответ.
	if err := s.persistence.PersistAsync(simulacao); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"simulation_id": simulacao.ID,
			"cliente_id":    simulacao.ClienteID,
		}).Error("Задача сохранения симуляции отклонена пулом")
	}

	// 5. Сборка ответа и немедленный возврат
	return &model.SimulationResponse{
		ProdutoValidado:    produto.ToDTO(),
		ResultadoSimulacao: resultado,
		DataSimulacao:      simulacao.DataSimulacao,
	}, nil
}

// calculateProjection считает проекцию по формуле простых процентов:
// valorFinal = valor * (1 + taxaAnual * (meses / 12)).
// Вся арифметика десятичная; meses/12 считается с точностью 8 знаков,
// итог округляется до 2 знаков (half-up). Эффективная доходность -
// заявленная годовая ставка продукта.
func calculateProjection(produto *model.Product, valor decimal.Decimal, prazoMeses int) model.SimulationResult {
	prazoEmAnos := decimal.NewFromInt(int64(prazoMeses)).DivRound(decimal.NewFromInt(12), 8)
	rentabilidadeTotal := produto.RentabilidadeAnual.Mul(prazoEmAnos)
	valorFinal := valor.Mul(decimal.NewFromInt(1).Add(rentabilidadeTotal)).Round(2)

	return model.SimulationResult{
		ValorFinal:           valorFinal,
		RentabilidadeEfetiva: produto.RentabilidadeAnual,
		PrazoMeses:           prazoMeses,
	}
}

// SimulationHistory возвращает полную историю симуляций
func (s *InvestmentService) SimulationHistory(ctx context.Context) ([]model.SimulationHistoryItem, error) {
	historico, err := s.store.AllHistory(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось получить историю симуляций")
		return nil, fmt.Errorf("ошибка получения истории симуляций: %w", err)
	}
	return historico, nil
}

// AggregatedSimulations возвращает агрегаты по продукту и дню
func (s *InvestmentService) AggregatedSimulations(ctx context.Context) ([]model.AggregatedSimulation, error) {
	agregados, err := s.store.AggregateByProductAndDay(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось получить агрегаты симуляций")
		return nil, fmt.Errorf("ошибка агрегации симуляций: %w", err)
	}
	return agregados, nil
}

// InvestmentHistory возвращает историю инвестиций клиента
func (s *InvestmentService) InvestmentHistory(ctx context.Context, clienteID int64) ([]model.InvestmentHistoryItem, error) {
	historico, err := s.store.HistoryByClient(ctx, clienteID)
	if err != nil {
		s.logger.WithError(err).WithField("cliente_id", clienteID).Error("Не удалось получить историю инвестиций")
		return nil, fmt.Errorf("ошибка получения истории инвестиций: %w", err)
	}
	return historico, nil
}
