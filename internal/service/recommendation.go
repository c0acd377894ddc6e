package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/cache"
	"github.com/ziggy-data/investimento/internal/model"
)

// Описание профиля при отсутствии истории
const noHistoryDescription = "Sem dados históricos. Perfil padrão."

// Пороги балла за объём (по средней инвестированной сумме)
var (
	volumeHighThreshold = decimal.NewFromInt(10000)
	volumeMidThreshold  = decimal.NewFromInt(5000)
)

// RecommendationService - движок рекомендаций и профайлер риска.
// Рекомендации кэшируются по имени категории и не инвалидируются
// (каталог статичен в течение жизни процесса). Профиль кэшируется
// по клиенту и сбрасывается конвейером персистентности при каждой
// новой записи - другого триггера инвалидации нет.
type RecommendationService struct {
	catalog             ProductCatalog
	store               SimulationStore
	profileCache        *cache.Cache
	recommendationCache *cache.Cache
	logger              *logrus.Logger
}

func NewRecommendationService(
	catalog ProductCatalog,
	store SimulationStore,
	profileCache *cache.Cache,
	recommendationCache *cache.Cache,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		catalog:             catalog,
		store:               store,
		profileCache:        profileCache,
		recommendationCache: recommendationCache,
		logger:              logger,
	}
}

// CalculateRiskProfile считает профиль риска клиента по агрегированной
// истории. Одного запроса агрегации достаточно: COUNT, AVG суммы и AVG
// балла риска считаются в базе.
func (s *RecommendationService) CalculateRiskProfile(ctx context.Context, clienteID int64) (*model.RiskProfile, error) {
	key := profileCacheKey(clienteID)

	if cached, ok := s.profileCache.Get(key); ok {
		return cached.(*model.RiskProfile), nil
	}

	agregado, err := s.store.AggregateByClient(ctx, clienteID)
	if err != nil {
		s.logger.WithError(err).WithField("cliente_id", clienteID).Error("Не удалось агрегировать историю клиента")
		return nil, fmt.Errorf("ошибка расчёта профиля риска: %w", err)
	}

	perfil := buildRiskProfile(clienteID, agregado)
	s.profileCache.Set(key, perfil)

	s.logger.WithFields(logrus.Fields{
		"cliente_id": clienteID,
		"perfil":     perfil.Perfil,
		"pontuacao":  perfil.Pontuacao,
	}).Debug("Профиль риска рассчитан")

	return perfil, nil
}

// buildRiskProfile - чистая функция расчёта профиля по агрегатам.
// Без истории возвращается Conservador с нулевым баллом, расчёт
// пропускается полностью.
func buildRiskProfile(clienteID int64, agregado *model.ClientAggregate) *model.RiskProfile {
	if agregado.Contagem == 0 {
		return &model.RiskProfile{
			ClienteID: clienteID,
			Perfil:    "Conservador",
			Pontuacao: 0,
			Descricao: noHistoryDescription,
		}
	}

	// Балл за объём: по средней инвестированной сумме
	pontuacaoVolume := 10
	if agregado.MediaValor.GreaterThan(volumeHighThreshold) {
		pontuacaoVolume = 33
	} else if agregado.MediaValor.GreaterThan(volumeMidThreshold) {
		pontuacaoVolume = 20
	}

	// Балл за частоту: по количеству симуляций
	pontuacaoFreq := 10
	if agregado.Contagem > 10 {
		pontuacaoFreq = 33
	} else if agregado.Contagem > 3 {
		pontuacaoFreq = 20
	}

	// Балл за риск: средний балл риска продуктов, округлённый до целого.
	// Максимум 33+33+34 = ровно 100.
	pontuacaoRisco := int(agregado.MediaRisco.Round(0).IntPart())

	pontuacao := pontuacaoVolume + pontuacaoFreq + pontuacaoRisco
	categoria := model.RiskCategoryFromScore(pontuacao)

	return &model.RiskProfile{
		ClienteID: clienteID,
		Perfil:    categoria.Nome,
		Pontuacao: pontuacao,
		Descricao: categoria.Descricao,
	}
}

// RecommendProducts возвращает продукты, допустимые для категории риска.
// Имя категории нечувствительно к регистру и пробелам по краям;
// неизвестное имя - ошибка бизнес-правила (не кэшируется).
func (s *RecommendationService) RecommendProducts(ctx context.Context, perfil string) ([]model.ProductDTO, error) {
	categoria, err := model.RiskCategoryFromName(perfil)
	if err != nil {
		return nil, err
	}

	key := recommendationCacheKey(categoria.Nome)

	if cached, ok := s.recommendationCache.Get(key); ok {
		return cached.([]model.ProductDTO), nil
	}

	produtos, err := s.catalog.FindByRiskTiers(ctx, categoria.RiscosAceitos)
	if err != nil {
		s.logger.WithError(err).WithField("perfil", categoria.Nome).Error("Не удалось получить рекомендованные продукты")
		return nil, fmt.Errorf("ошибка поиска рекомендованных продуктов: %w", err)
	}

	s.recommendationCache.Set(key, produtos)
	return produtos, nil
}

// WarmUpRecommendations прогревает кэш рекомендаций при старте,
// чтобы первый запрос пользователя уже обслуживался из кэша.
// Сбой прогрева не фатален.
func (s *RecommendationService) WarmUpRecommendations(ctx context.Context) {
	s.logger.Info("Прогрев кэша рекомендаций...")

	for _, perfil := range []string{"conservador", "moderado", "agressivo"} {
		if _, err := s.RecommendProducts(ctx, perfil); err != nil {
			s.logger.WithError(err).WithField("perfil", perfil).Error("Не удалось прогреть кэш рекомендаций")
			return
		}
	}

	s.logger.Info("Прогрев кэша рекомендаций завершён")
}

func recommendationCacheKey(nome string) string {
	return "recomendacao-" + strings.ToLower(nome)
}
