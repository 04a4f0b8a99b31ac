package domain

import "time"

// CatchRecord запись об успешно пойманной дате поставки
type CatchRecord struct {
	ID              int64      `json:"id"`
	DisplayText     string     `json:"displayText"`
	SlotDate        *time.Time `json:"slotDate,omitempty"`
	AcceptanceLabel string     `json:"acceptanceLabel"`
	Coefficient     float64    `json:"coefficient"`
	IsFree          bool       `json:"isFree"`
	ClickCount      int        `json:"clickCount"`
	CaughtAt        time.Time  `json:"caughtAt"`
}
