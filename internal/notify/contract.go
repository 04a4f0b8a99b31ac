package notify

import (
	"context"
	"time"
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

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// TelegramSender отправка сообщений в Telegram
type TelegramSender interface {
	Configured() bool
	SendMessage(ctx context.Context, text string) error
}

// LogStore журнал мониторинга
type LogStore interface {
	AppendMonitoringLog(ctx context.Context, message string) error
}

// Metrics счетчики отправленных уведомлений
type Metrics interface {
	ObserveNotification(channel, result string)
}
