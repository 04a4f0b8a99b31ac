package autocatch

import (
	"context"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// SettingsStore персистентное хранилище состояния воркфлоу
type SettingsStore interface {
	GetSetting(ctx context.Context, key string, out interface{}) error
	SetSetting(ctx context.Context, key string, value interface{}) error
}

// HistoryStore журнал пойманных дат
type HistoryStore interface {
	Create(ctx context.Context, record *domain.CatchRecord) (*domain.CatchRecord, error)
}

// Notifier канал уведомлений пользователя
type Notifier interface {
	Notify(ctx context.Context, message string) bool
	NotifyUrgent(ctx context.Context, message string)
}

// EventSink приемник доменных событий воркфлоу
// События транслируются подписчикам управляющего API
type EventSink interface {
	Publish(event string, payload interface{})
}

// Metrics счетчики воркфлоу
type Metrics interface {
	ObserveWorkflowTick(workflow, outcome string)
	ObserveTriggerClick(workflow string)
	ObserveWorkflowSuccess(workflow string)
}

// Scheduler цикл тиков с защитой от перекрытия проходов
type Scheduler interface {
	Start(interval time.Duration, pass func(ctx context.Context))
	Stop()
}
