package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/cache"
	"github.com/ziggy-data/investimento/internal/model"
)

// ProductValidationService подбирает лучший подходящий продукт для запроса
// симуляции. Результат кэшируется по ключу (тип в нижнем регистре, сумма,
// срок); записи живут до перезапуска процесса.
type ProductValidationService struct {
	catalog ProductCatalog
	cache   *cache.Cache
	logger  *logrus.Logger
}

func NewProductValidationService(catalog ProductCatalog, cache *cache.Cache, logger *logrus.Logger) *ProductValidationService {
	return &ProductValidationService{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// ValidateProduct возвращает подходящий продукт с максимальной годовой
// ставкой. Отсутствие подходящего продукта - ошибка бизнес-правила
// с указанием типа, суммы и срока; такие результаты не кэшируются.
func (s *ProductValidationService) ValidateProduct(ctx context.Context, request model.SimulationRequest) (*model.Product, error) {
	key := validationCacheKey(request)

	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Product), nil
	}

	produto, err := s.catalog.FindBestMatch(ctx, request.TipoProduto, request.Valor, request.PrazoMeses)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось выполнить поиск продукта")
		return nil, fmt.Errorf("ошибка поиска продукта: %w", err)
	}

	if produto == nil {
		s.logger.WithFields(logrus.Fields{
			"tipo":        request.TipoProduto,
			"valor":       request.Valor,
			"prazo_meses": request.PrazoMeses,
		}).Warn("Нет продукта, удовлетворяющего запросу")
		return nil, model.NewBusinessError(fmt.Sprintf(
			"Nenhum produto do tipo '%s' encontrado para o valor de R$ %s e prazo de %d meses.",
			request.TipoProduto, request.Valor.StringFixed(2), request.PrazoMeses,
		))
	}

	s.cache.Set(key, produto)
	return produto, nil
}

func validationCacheKey(request model.SimulationRequest) string {
	return strings.ToLower(request.TipoProduto) + "-" + request.Valor.String() + "-" + strconv.Itoa(request.PrazoMeses)
}
