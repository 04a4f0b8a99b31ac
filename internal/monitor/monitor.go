package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/m04kA/WB-SupplyBot/internal/dom"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

const jobName = "delivery-monitoring"

// Monitor периодически сканирует поставки и уведомляет об изменениях:
// новые поставки, смена статуса, дедлайн в пределах суток
type Monitor struct {
	page         dom.Document
	scanner      Scanner
	store        DeliveryStore
	logStore     LogStore
	notifier     Notifier
	metrics      Metrics
	timeProvider TimeProvider
	flags        Flags
	log          Logger

	scheduler gocron.Scheduler
}

// New создает новый экземпляр монитора
func New(
	page dom.Document,
	scanner Scanner,
	store DeliveryStore,
	logStore LogStore,
	notifier Notifier,
	metrics Metrics,
	timeProvider TimeProvider,
	flags Flags,
	log Logger,
) *Monitor {
	return &Monitor{
		page:         page,
		scanner:      scanner,
		store:        store,
		logStore:     logStore,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: timeProvider,
		flags:        flags,
		log:          log,
	}
}

// Start регистрирует периодическую задачу мониторинга
func (m *Monitor) Start(ctx context.Context, interval time.Duration) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("monitor: create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := m.RunPass(ctx); err != nil {
				m.log.Error("Monitoring pass failed: %v", err)
			}
		}),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("monitor: register job: %w", err)
	}

	scheduler.Start()
	m.scheduler = scheduler
	m.log.Info("Delivery monitoring started, interval %s", interval)
	return nil
}

// Stop останавливает периодическую задачу
func (m *Monitor) Stop() error {
	if m.scheduler == nil {
		return nil
	}
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("monitor: shutdown scheduler: %w", err)
	}
	m.scheduler = nil
	return nil
}

// RunPass выполняет один проход мониторинга: скан, сравнение
// со снимком, слияние и сохранение. Возвращает объединенный снимок
func (m *Monitor) RunPass(ctx context.Context) ([]domain.DeliveryRecord, error) {
	scanned, err := m.scanner.Scan(ctx, m.page)
	if err != nil {
		return nil, fmt.Errorf("monitor: scan deliveries: %w", err)
	}
	m.metrics.SetScannedDeliveries(len(scanned))

	previous, err := m.store.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("monitor: load previous snapshot: %w", err)
	}

	m.reportChanges(ctx, previous, scanned)

	merged := domain.MergeDeliveries(previous, scanned)
	if err := m.store.SaveDeliveries(ctx, merged); err != nil {
		return nil, fmt.Errorf("monitor: save deliveries: %w", err)
	}

	stats := domain.CountDeliveryStats(merged)
	summary := fmt.Sprintf("Мониторинг: отсканировано %d, всего %d, активных %d",
		len(scanned), stats.Total, stats.Active)
	if err := m.logStore.AppendMonitoringLog(ctx, summary); err != nil {
		m.log.Warn("Failed to append monitoring log: %v", err)
	}

	m.log.Info("Monitoring pass done: %d scanned, %d total, %d active",
		len(scanned), stats.Total, stats.Active)
	return merged, nil
}

// reportChanges сравнивает снимки и шлет уведомления по включенным
// типам изменений
func (m *Monitor) reportChanges(ctx context.Context, previous, scanned []domain.DeliveryRecord) {
	known := make(map[string]domain.DeliveryRecord, len(previous))
	for _, d := range previous {
		known[d.ID] = d
	}

	now := m.timeProvider.Now()

	for _, d := range scanned {
		prev, seen := known[d.ID]

		if !seen {
			if m.flags.NotifyNewDeliveries {
				m.notifier.Notify(ctx, fmt.Sprintf("Новая поставка %s (%s)", d.ID, d.Status))
			}
			continue
		}

		if m.flags.NotifyStatusChanges && d.Status != "" && d.Status != prev.Status {
			m.notifier.Notify(ctx, fmt.Sprintf("Поставка %s: статус %s -> %s", d.ID, prev.Status, d.Status))
		}

		if m.flags.NotifyDeadlines && d.DeadlineWithin(now, domain.DeadlineNotifyWindow) {
			m.notifier.Notify(ctx, fmt.Sprintf("Поставка %s: дедлайн %s", d.ID, d.Deadline.Format("02.01.2006 15:04")))
		}
	}
}
