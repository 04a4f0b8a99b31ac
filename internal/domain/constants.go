package domain

import "time"

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Storage and notification limits
const (
	// MonitoringLogCap максимальный размер журнала мониторинга,
	// старые записи вытесняются по принципу FIFO
	MonitoringLogCap = 50

	// NotificationThrottle минимальный интервал между исходящими уведомлениями
	NotificationThrottle = 60 * time.Second

	// DeadlineNotifyWindow окно предупреждения о приближающемся дедлайне
	DeadlineNotifyWindow = 24 * time.Hour
)

// DeliveryStatuses все канонические статусы поставок
var DeliveryStatuses = []DeliveryStatus{
	DeliveryPending,
	DeliveryActive,
	DeliveryCompleted,
	DeliveryCancelled,
}
