package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
)

type ProductRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewProductRepository(db *sql.DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// FindBestMatch возвращает подходящий продукт с максимальной годовой
// ставкой: тип совпадает точно, минимальная сумма и минимальный срок
// не превышают запрошенные (границы включительно). При равной ставке
// берётся продукт с меньшим id (детерминированный порядок).
// Если подходящего продукта нет, возвращается (nil, nil).
func (r *ProductRepository) FindBestMatch(ctx context.Context, tipo string, valor decimal.Decimal, prazoMeses int) (*model.Product, error) {
	query := `
		SELECT id, nome, tipo, rentabilidade_anual, risco, valor_minimo, prazo_minimo_meses
		FROM produtos
		WHERE tipo = $1 AND valor_minimo <= $2 AND prazo_minimo_meses <= $3
		ORDER BY rentabilidade_anual DESC, id ASC
		LIMIT 1
	`

	var produto model.Product
	err := r.db.QueryRowContext(ctx, query, tipo, valor, prazoMeses).Scan(
		&produto.ID,
		&produto.Nome,
		&produto.Tipo,
		&produto.RentabilidadeAnual,
		&produto.Risco,
		&produto.ValorMinimo,
		&produto.PrazoMinimoMeses,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.WithFields(logrus.Fields{
				"tipo":        tipo,
				"valor":       valor,
				"prazo_meses": prazoMeses,
			}).Debug("Подходящий продукт не найден")
			return nil, nil
		}
		r.logger.WithError(err).Error("Ошибка поиска продукта")
		return nil, fmt.Errorf("failed to find best matching product: %w", err)
	}

	return &produto, nil
}

// FindByRiskTiers возвращает продукты с уровнем риска из переданного набора
func (r *ProductRepository) FindByRiskTiers(ctx context.Context, riscos []string) ([]model.ProductDTO, error) {
	query := `
		SELECT id, nome, tipo, rentabilidade_anual, risco
		FROM produtos
		WHERE risco = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(riscos))
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса продуктов по уровням риска")
		return nil, fmt.Errorf("failed to find products by risk tiers: %w", err)
	}
	defer rows.Close()

	var produtos []model.ProductDTO
	for rows.Next() {
		var produto model.ProductDTO
		if err := rows.Scan(
			&produto.ID,
			&produto.Nome,
			&produto.Tipo,
			&produto.Rentabilidade,
			&produto.Risco,
		); err != nil {
			r.logger.WithError(err).Error("Ошибка чтения строки продукта")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		produtos = append(produtos, produto)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return produtos, nil
}

// Count возвращает количество продуктов в каталоге
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM produtos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Create добавляет продукт в каталог (используется только сидированием при старте)
func (r *ProductRepository) Create(ctx context.Context, produto *model.Product) error {
	query := `
		INSERT INTO produtos (nome, tipo, rentabilidade_anual, risco, valor_minimo, prazo_minimo_meses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		produto.Nome,
		produto.Tipo,
		produto.RentabilidadeAnual,
		produto.Risco,
		produto.ValorMinimo,
		produto.PrazoMinimoMeses,
	).Scan(&produto.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("product already exists: %w", err)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}
