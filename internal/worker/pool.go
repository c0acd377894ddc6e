// Package worker - ограниченный пул фоновых задач для асинхронной
// персистентности. Отправка задачи не блокирует вызывающего: при
// переполненной очереди Submit возвращает ErrQueueFull.
package worker

import (
	"errors"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull возвращается, когда очередь задач заполнена и все
// дополнительные воркеры уже запущены
var ErrQueueFull = errors.New("worker pool queue is full")

// Task - единица фоновой работы. Отмена не поддерживается:
// принятая задача выполняется до конца или завершается с ошибкой.
type Task func()

type Pool struct {
	tasks    chan Task
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	logger   *logrus.Logger

	mu         sync.Mutex
	workers    int
	maxWorkers int
}

// NewPool создаёт пул с core резидентными воркерами. При заполнении
// очереди пул поднимает дополнительных воркеров до maxWorkers, после
// чего новые задачи отклоняются.
func NewPool(core, maxWorkers, queueSize int, logger *logrus.Logger) *Pool {
	if core < 1 {
		core = 1
	}
	if maxWorkers < core {
		maxWorkers = core
	}
	if queueSize < 1 {
		queueSize = 100
	}

	p := &Pool{
		tasks:      make(chan Task, queueSize),
		quit:       make(chan struct{}),
		logger:     logger,
		maxWorkers: maxWorkers,
	}

	p.mu.Lock()
	for i := 0; i < core; i++ {
		p.startWorker()
	}
	p.mu.Unlock()

	return p
}

// Submit ставит задачу в очередь и немедленно возвращает управление.
// Вызывающий никогда не ждёт выполнения задачи.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}

	select {
	case p.tasks <- task:
		return nil
	default:
	}

	// Очередь заполнена: поднимаем дополнительного воркера в пределах лимита
	p.mu.Lock()
	if p.workers < p.maxWorkers {
		p.startWorker()
		p.mu.Unlock()

		select {
		case p.tasks <- task:
			return nil
		default:
			return ErrQueueFull
		}
	}
	p.mu.Unlock()

	return ErrQueueFull
}

// startWorker запускает воркера; вызывается под p.mu
func (p *Pool) startWorker() {
	p.workers++
	id := p.workers
	p.wg.Add(1)
	go p.run(id)
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			p.execute(id, task)
		}
	}
}

// execute выполняет задачу с перехватом паники, чтобы одна задача
// не останавливала воркера
func (p *Pool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithFields(logrus.Fields{
				"worker_id": id,
				"panic":     r,
				"stack":     string(debug.Stack()),
			}).Error("Паника в фоновой задаче")
		}
	}()

	task()
}

// Shutdown останавливает воркеров после завершения текущих задач.
// Задачи, оставшиеся в очереди, не гарантированно выполняются
// (контракт best-effort). Повторные вызовы безопасны.
func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}
