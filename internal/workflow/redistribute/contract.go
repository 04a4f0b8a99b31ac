package redistribute

import (
	"context"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SettingsStore персистентное хранилище состояния воркфлоу
type SettingsStore interface {
	GetSetting(ctx context.Context, key string, out interface{}) error
	SetSetting(ctx context.Context, key string, value interface{}) error
}

// Notifier канал уведомлений пользователя
type Notifier interface {
	Notify(ctx context.Context, message string) bool
	NotifyUrgent(ctx context.Context, message string)
}

// EventSink приемник доменных событий воркфлоу
type EventSink interface {
	Publish(event string, payload interface{})
}

// Metrics счетчики воркфлоу
type Metrics interface {
	ObserveWorkflowTick(workflow, outcome string)
	ObserveTriggerClick(workflow string)
	ObserveWorkflowSuccess(workflow string)
}

// Delays паузы между шагами воркфлоу
type Delays struct {
	AfterRefresh   time.Duration
	AfterTrigger   time.Duration
	AfterFieldOpen time.Duration
	DropdownSettle time.Duration
	BetweenSteps   time.Duration
	CycleRestart   time.Duration
}

// DefaultDelays паузы, подобранные под реальный портал
func DefaultDelays() Delays {
	return Delays{
		AfterRefresh:   time.Second,
		AfterTrigger:   500 * time.Millisecond,
		AfterFieldOpen: 300 * time.Millisecond,
		DropdownSettle: time.Second,
		BetweenSteps:   500 * time.Millisecond,
		CycleRestart:   time.Second,
	}
}
