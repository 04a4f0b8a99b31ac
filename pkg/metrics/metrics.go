package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	WorkflowTicksTotal   *prometheus.CounterVec
	WorkflowClicksTotal  *prometheus.CounterVec
	WorkflowSuccessTotal *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	ScannedDeliveries    prometheus.Gauge
}

// ObserveWorkflowTick увеличивает счетчик тиков воркфлоу
func (m *Metrics) ObserveWorkflowTick(workflow, outcome string) {
	m.WorkflowTicksTotal.WithLabelValues(workflow, outcome).Inc()
}

// ObserveTriggerClick увеличивает счетчик кликов по кнопке-триггеру
func (m *Metrics) ObserveTriggerClick(workflow string) {
	m.WorkflowClicksTotal.WithLabelValues(workflow).Inc()
}

// ObserveWorkflowSuccess увеличивает счетчик успешных завершений
func (m *Metrics) ObserveWorkflowSuccess(workflow string) {
	m.WorkflowSuccessTotal.WithLabelValues(workflow).Inc()
}

// SetScannedDeliveries выставляет gauge последнего сканирования
func (m *Metrics) SetScannedDeliveries(count int) {
	m.ScannedDeliveries.Set(float64(count))
}

// ObserveNotification увеличивает счетчик уведомлений
func (m *Metrics) ObserveNotification(channel, result string) {
	m.NotificationsTotal.WithLabelValues(channel, result).Inc()
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		WorkflowTicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "workflow_ticks_total",
			Help:        "Total number of workflow ticks by outcome",
			ConstLabels: constLabels,
		}, []string{"workflow", "outcome"}),

		WorkflowClicksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "workflow_trigger_clicks_total",
			Help:        "Total number of trigger button clicks",
			ConstLabels: constLabels,
		}, []string{"workflow"}),

		WorkflowSuccessTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "workflow_success_total",
			Help:        "Total number of successfully completed workflows",
			ConstLabels: constLabels,
		}, []string{"workflow"}),

		NotificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Total number of notifications by channel and result",
			ConstLabels: constLabels,
		}, []string{"channel", "result"}),

		ScannedDeliveries: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "scanned_deliveries",
			Help:        "Number of delivery records found by the last scan",
			ConstLabels: constLabels,
		}),
	}
}
