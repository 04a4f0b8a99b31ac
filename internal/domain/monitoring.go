package domain

import "time"

// MonitoringEntry запись журнала фонового мониторинга поставок
type MonitoringEntry struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
