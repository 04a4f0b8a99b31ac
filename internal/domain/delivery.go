package domain

import "time"

// DeliveryStatus статус поставки
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryActive    DeliveryStatus = "active"
	DeliveryCompleted DeliveryStatus = "completed"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// DeliveryRecord запись о поставке, извлеченная со страницы портала
// Идентичность определяется полем ID; при повторном сканировании
// поля новой записи перекрывают поля существующей (merge-on-rescan)
type DeliveryRecord struct {
	ID         string
	Status     DeliveryStatus
	CreatedAt  time.Time
	Deadline   *time.Time
	ItemsCount *int
	ScannedAt  time.Time
	Source     string
}

// DeadlineWithin возвращает true, если дедлайн поставки наступает
// в пределах window от момента now (но еще не прошел)
func (d *DeliveryRecord) DeadlineWithin(now time.Time, window time.Duration) bool {
	if d.Deadline == nil {
		return false
	}
	until := d.Deadline.Sub(now)
	return until > 0 && until < window
}

// MergeDeliveries объединяет результат сканирования с уже сохраненными записями
// Совпавшие по ID записи обновляются полями новой (незаполненные поля
// новой записи сохраняют прежние значения), несовпавшие старые остаются
func MergeDeliveries(existing, scanned []DeliveryRecord) []DeliveryRecord {
	index := make(map[string]int, len(existing))
	merged := make([]DeliveryRecord, len(existing))
	copy(merged, existing)

	for i, rec := range existing {
		index[rec.ID] = i
	}

	for _, next := range scanned {
		i, ok := index[next.ID]
		if !ok {
			index[next.ID] = len(merged)
			merged = append(merged, next)
			continue
		}
		merged[i] = mergeRecord(merged[i], next)
	}

	return merged
}

func mergeRecord(prev, next DeliveryRecord) DeliveryRecord {
	out := next
	if out.Status == "" {
		out.Status = prev.Status
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = prev.CreatedAt
	}
	if out.Deadline == nil {
		out.Deadline = prev.Deadline
	}
	if out.ItemsCount == nil {
		out.ItemsCount = prev.ItemsCount
	}
	if out.Source == "" {
		out.Source = prev.Source
	}
	return out
}

// DeliveryStats агрегированная статистика по поставкам
type DeliveryStats struct {
	Active    int `json:"active"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// CountDeliveryStats подсчитывает статистику по списку поставок
func CountDeliveryStats(deliveries []DeliveryRecord) DeliveryStats {
	stats := DeliveryStats{Total: len(deliveries)}
	for _, d := range deliveries {
		switch d.Status {
		case DeliveryActive:
			stats.Active++
		case DeliveryPending:
			stats.Pending++
		case DeliveryCompleted:
			stats.Completed++
		}
	}
	return stats
}
