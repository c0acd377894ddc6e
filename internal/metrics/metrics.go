// Package metrics - регистрация и чтение метрик HTTP запросов.
// Эндпоинт телеметрии читает количество вызовов и среднее время ответа
// обратно из реестра Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const durationMetricName = "investimento_http_request_duration_seconds"

type Registry struct {
	registry  *prometheus.Registry
	duration  *prometheus.HistogramVec
	startedAt time.Time
}

func New() *Registry {
	registry := prometheus.NewRegistry()

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    durationMetricName,
		Help:    "Длительность HTTP запросов по шаблону маршрута.",
		Buckets: prometheus.DefBuckets,
	}, []string{"uri"})

	registry.MustRegister(duration)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Registry{
		registry:  registry,
		duration:  duration,
		startedAt: time.Now(),
	}
}

// Observe фиксирует длительность обработки запроса для шаблона маршрута
func (r *Registry) Observe(uri string, seconds float64) {
	r.duration.WithLabelValues(uri).Observe(seconds)
}

// Handler возвращает обработчик экспозиции /metrics
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// StartedAt возвращает время старта приложения (начало периода телеметрии)
func (r *Registry) StartedAt() time.Time {
	return r.startedAt
}

// EndpointStats читает из реестра количество вызовов и среднее время
// ответа (в миллисекундах) для шаблона маршрута. Для маршрута без
// наблюдений возвращаются нули.
func (r *Registry) EndpointStats(uri string) (count uint64, meanMs float64) {
	families, err := r.registry.Gather()
	if err != nil {
		return 0, 0
	}

	for _, family := range families {
		if family.GetName() != durationMetricName {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() != "uri" || label.GetValue() != uri {
					continue
				}
				histogram := metric.GetHistogram()
				count = histogram.GetSampleCount()
				if count > 0 {
					meanMs = histogram.GetSampleSum() / float64(count) * 1000
				}
				return count, meanMs
			}
		}
	}

	return 0, 0
}
