package service

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/cache"
	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/worker"
)

// Таймаут одной фоновой записи
const persistTimeout = 10 * time.Second

// SimulationPersistenceService сохраняет симуляции в фоне и сбрасывает
// кэш профиля риска клиента после успешной записи. Контракт at-most-once:
// неудачная запись логируется, не повторяется и не сообщается клиенту
// (ответ уже отправлен).
type SimulationPersistenceService struct {
	store        SimulationStore
	profileCache *cache.Cache
	pool         *worker.Pool
	notifier     *Notifier
	logger       *logrus.Logger
}

func NewSimulationPersistenceService(
	store SimulationStore,
	profileCache *cache.Cache,
	pool *worker.Pool,
	notifier *Notifier,
	logger *logrus.Logger,
) *SimulationPersistenceService {
	return &SimulationPersistenceService{
		store:        store,
		profileCache: profileCache,
		pool:         pool,
		notifier:     notifier,
		logger:       logger,
	}
}

// PersistAsync ставит запись в очередь пула и немедленно возвращает
// управление (fire-and-forget). Ошибка возвращается только при отказе
// переполненной очереди; сама запись к этому моменту ещё не выполнена.
func (s *SimulationPersistenceService) PersistAsync(simulacao *model.Simulation) error {
	return s.pool.Submit(func() {
		s.persist(simulacao)
	})
}

func (s *SimulationPersistenceService) persist(simulacao *model.Simulation) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.store.Append(ctx, simulacao); err != nil {
		// Ошибка проглатывается: только лог и необязательное уведомление
		s.logger.WithError(err).WithFields(logrus.Fields{
			"simulation_id": simulacao.ID,
			"cliente_id":    simulacao.ClienteID,
		}).Error("Не удалось сохранить симуляцию")

		if s.notifier != nil {
			if alertErr := s.notifier.SendPersistFailureAlert(simulacao, err); alertErr != nil {
				s.logger.WithError(alertErr).Warn("Не удалось отправить уведомление о сбое записи")
			}
		}
		return
	}

	// Cache-aside инвалидация: следующий запрос профиля пересчитает
	// его по актуальной истории
	s.profileCache.Evict(profileCacheKey(simulacao.ClienteID))

	s.logger.WithFields(logrus.Fields{
		"simulation_id": simulacao.ID,
		"cliente_id":    simulacao.ClienteID,
	}).Debug("Симуляция сохранена, кэш профиля сброшен")
}

// profileCacheKey - ключ кэша профиля риска клиента.
// Используется профайлером и инвалидацией согласованно.
func profileCacheKey(clienteID int64) string {
	return "perfil-" + strconv.FormatInt(clienteID, 10)
}
