package monitor

import (
	"context"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Scanner извлекает записи поставок со страницы
type Scanner interface {
	Scan(ctx context.Context, doc dom.Document) ([]domain.DeliveryRecord, error)
}

// DeliveryStore хранилище списка поставок
type DeliveryStore interface {
	ListDeliveries(ctx context.Context) ([]domain.DeliveryRecord, error)
	SaveDeliveries(ctx context.Context, deliveries []domain.DeliveryRecord) error
}

// Notifier канал уведомлений пользователя
type Notifier interface {
	Notify(ctx context.Context, message string) bool
}

// LogStore журнал мониторинга
type LogStore interface {
	AppendMonitoringLog(ctx context.Context, message string) error
}

// Metrics метрики мониторинга
type Metrics interface {
	SetScannedDeliveries(count int)
}

// Flags какие типы изменений вызывают уведомление
type Flags struct {
	NotifyNewDeliveries bool
	NotifyStatusChanges bool
	NotifyDeadlines     bool
}
