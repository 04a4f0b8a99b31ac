package notify

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

const (
	channelSystem   = "system"
	channelTelegram = "telegram"

	resultSent      = "sent"
	resultThrottled = "throttled"
	resultFailed    = "failed"
)

// Notifier рассылает уведомления в журнал мониторинга и Telegram
// Повторные уведомления в пределах окна троттлинга подавляются,
// чтобы частые тики воркфлоу не засыпали пользователя сообщениями
type Notifier struct {
	telegram     TelegramSender
	logStore     LogStore
	metrics      Metrics
	timeProvider TimeProvider
	log          Logger

	mu       sync.Mutex
	lastSent time.Time
}

// NewNotifier создает новый экземпляр нотификатора
func NewNotifier(telegram TelegramSender, logStore LogStore, metrics Metrics, timeProvider TimeProvider, log Logger) *Notifier {
	return &Notifier{
		telegram:     telegram,
		logStore:     logStore,
		metrics:      metrics,
		timeProvider: timeProvider,
		log:          log,
	}
}

// Notify отправляет сообщение во все каналы с учетом троттлинга
// Возвращает true, если сообщение было отправлено
func (n *Notifier) Notify(ctx context.Context, message string) bool {
	n.mu.Lock()
	now := n.timeProvider.Now()
	if !n.lastSent.IsZero() && now.Sub(n.lastSent) < domain.NotificationThrottle {
		n.mu.Unlock()
		n.log.Info("Notification throttled: %s", message)
		n.metrics.ObserveNotification(channelSystem, resultThrottled)
		return false
	}
	n.lastSent = now
	n.mu.Unlock()

	n.dispatch(ctx, message)
	return true
}

// NotifyUrgent отправляет сообщение в обход троттлинга
// Используется для событий, которые нельзя терять: успешный автолов,
// критические ошибки воркфлоу
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) {
	n.mu.Lock()
	n.lastSent = n.timeProvider.Now()
	n.mu.Unlock()

	n.dispatch(ctx, message)
}

func (n *Notifier) dispatch(ctx context.Context, message string) {
	if err := n.logStore.AppendMonitoringLog(ctx, message); err != nil {
		n.log.Error("Failed to append monitoring log: %v", err)
		n.metrics.ObserveNotification(channelSystem, resultFailed)
	} else {
		n.metrics.ObserveNotification(channelSystem, resultSent)
	}

	if n.telegram == nil || !n.telegram.Configured() {
		return
	}

	// Telegram не должен блокировать воркфлоу, шлем в фоне
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := n.telegram.SendMessage(sendCtx, message); err != nil {
			n.log.Error("Failed to send telegram notification: %v", err)
			n.metrics.ObserveNotification(channelTelegram, resultFailed)
			return
		}
		n.metrics.ObserveNotification(channelTelegram, resultSent)
	}()
}
