package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
)

type SimulationRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSimulationRepository(db *sql.DB, logger *logrus.Logger) *SimulationRepository {
	return &SimulationRepository{db: db, logger: logger}
}

// Append сохраняет запись симуляции. Записи только добавляются:
// обновлений и удалений со стороны ядра нет.
func (r *SimulationRepository) Append(ctx context.Context, simulacao *model.Simulation) error {
	r.logger.WithFields(logrus.Fields{
		"simulation_id": simulacao.ID,
		"cliente_id":    simulacao.ClienteID,
		"produto_id":    simulacao.Produto.ID,
		"valor":         simulacao.ValorInvestido,
	}).Debug("Сохранение симуляции")

	query := `
		INSERT INTO simulacoes (id, cliente_id, produto_id, valor_investido, valor_final, prazo_meses, data_simulacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		simulacao.ID,
		simulacao.ClienteID,
		simulacao.Produto.ID,
		simulacao.ValorInvestido,
		simulacao.ValorFinal,
		simulacao.PrazoMeses,
		simulacao.DataSimulacao,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return fmt.Errorf("simulation already exists: %w", err)
			case "foreign_key_violation":
				return fmt.Errorf("simulation references unknown product: %w", err)
			}
		}
		return fmt.Errorf("failed to append simulation: %w", err)
	}

	return nil
}

// AggregateByClient выполняет агрегацию истории клиента прямо в базе:
// количество записей, средняя инвестированная сумма и средний балл риска.
// Балл риска выводится из уровня риска продукта: Alto=34, Moderado=20,
// Baixo=10. Перекос в сторону Alto - намеренное бизнес-правило.
func (r *SimulationRepository) AggregateByClient(ctx context.Context, clienteID int64) (*model.ClientAggregate, error) {
	query := `
		SELECT
			COUNT(s.id),
			COALESCE(AVG(s.valor_investido), 0),
			COALESCE(AVG(CASE p.risco WHEN 'Alto' THEN 34.0 WHEN 'Moderado' THEN 20.0 ELSE 10.0 END), 0)
		FROM simulacoes s
		JOIN produtos p ON p.id = s.produto_id
		WHERE s.cliente_id = $1
	`

	var agregado model.ClientAggregate
	err := r.db.QueryRowContext(ctx, query, clienteID).Scan(
		&agregado.Contagem,
		&agregado.MediaValor,
		&agregado.MediaRisco,
	)

	if err != nil {
		r.logger.WithError(err).WithField("cliente_id", clienteID).Error("Ошибка агрегации истории клиента")
		return nil, fmt.Errorf("failed to aggregate client history: %w", err)
	}

	return &agregado, nil
}

// AggregateByProductAndDay возвращает количество симуляций и среднее
// итоговое значение, сгруппированные по продукту и календарному дню
func (r *SimulationRepository) AggregateByProductAndDay(ctx context.Context) ([]model.AggregatedSimulation, error) {
	query := `
		SELECT p.nome, DATE(s.data_simulacao) AS dia, COUNT(s.id), AVG(s.valor_final)
		FROM simulacoes s
		JOIN produtos p ON p.id = s.produto_id
		GROUP BY p.nome, DATE(s.data_simulacao)
		ORDER BY dia ASC, p.nome ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса агрегатов по продукту и дню")
		return nil, fmt.Errorf("failed to aggregate simulations: %w", err)
	}
	defer rows.Close()

	var agregados []model.AggregatedSimulation
	for rows.Next() {
		var agregado model.AggregatedSimulation
		var dia time.Time
		if err := rows.Scan(
			&agregado.Produto,
			&dia,
			&agregado.QuantidadeSimulacoes,
			&agregado.MediaValorFinal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan aggregated simulation: %w", err)
		}
		agregado.Data = dia.Format("2006-01-02")
		// Среднее выводится клиенту с двумя знаками после запятой
		agregado.MediaValorFinal = agregado.MediaValorFinal.Round(2)
		agregados = append(agregados, agregado)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregated simulations: %w", err)
	}

	return agregados, nil
}

// AllHistory возвращает полную историю симуляций
func (r *SimulationRepository) AllHistory(ctx context.Context) ([]model.SimulationHistoryItem, error) {
	query := `
		SELECT s.id, s.cliente_id, p.nome, s.valor_investido, s.valor_final, s.prazo_meses, s.data_simulacao
		FROM simulacoes s
		JOIN produtos p ON p.id = s.produto_id
		ORDER BY s.data_simulacao DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса истории симуляций")
		return nil, fmt.Errorf("failed to query simulation history: %w", err)
	}
	defer rows.Close()

	var historico []model.SimulationHistoryItem
	for rows.Next() {
		var item model.SimulationHistoryItem
		if err := rows.Scan(
			&item.ID,
			&item.ClienteID,
			&item.Produto,
			&item.ValorInvestido,
			&item.ValorFinal,
			&item.PrazoMeses,
			&item.DataSimulacao,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation history item: %w", err)
		}
		historico = append(historico, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate simulation history: %w", err)
	}

	return historico, nil
}

// HistoryByClient возвращает историю инвестиций клиента
func (r *SimulationRepository) HistoryByClient(ctx context.Context, clienteID int64) ([]model.InvestmentHistoryItem, error) {
	query := `
		SELECT s.id, p.tipo, s.valor_investido, p.rentabilidade_anual, DATE(s.data_simulacao)
		FROM simulacoes s
		JOIN produtos p ON p.id = s.produto_id
		WHERE s.cliente_id = $1
		ORDER BY s.data_simulacao DESC
	`

	rows, err := r.db.QueryContext(ctx, query, clienteID)
	if err != nil {
		r.logger.WithError(err).WithField("cliente_id", clienteID).Error("Ошибка запроса истории инвестиций")
		return nil, fmt.Errorf("failed to query investment history: %w", err)
	}
	defer rows.Close()

	var historico []model.InvestmentHistoryItem
	for rows.Next() {
		var item model.InvestmentHistoryItem
		var dia time.Time
		if err := rows.Scan(
			&item.ID,
			&item.Tipo,
			&item.Valor,
			&item.Rentabilidade,
			&dia,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment history item: %w", err)
		}
		item.Data = dia.Format("2006-01-02")
		historico = append(historico, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment history: %w", err)
	}

	return historico, nil
}
