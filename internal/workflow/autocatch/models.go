package autocatch

import (
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Settings параметры запуска автолова
type Settings struct {
	Interval time.Duration         `json:"interval"`
	Filters  domain.FilterCriteria `json:"filters"`
}

// Status текущее состояние воркфлоу
type Status struct {
	Enabled       bool       `json:"enabled"`
	ClickCount    int        `json:"clickCount"`
	LastClickTime *time.Time `json:"lastClickTime,omitempty"`
}

// CaughtSlot событие успешного автолова
type CaughtSlot struct {
	Date            *time.Time `json:"date,omitempty"`
	AcceptanceLabel string     `json:"acceptanceLabel"`
	ClickCount      int        `json:"clickCount"`
}

// persistedState резюмируемая часть состояния, переживающая рестарт
type persistedState struct {
	Enabled       bool                  `json:"enabled"`
	ClickCount    int                   `json:"clickCount"`
	LastClickTime *time.Time            `json:"lastClickTime,omitempty"`
	Interval      time.Duration         `json:"interval"`
	Filters       domain.FilterCriteria `json:"filters"`
}

// Delays паузы между шагами воркфлоу
// В тестах уменьшаются, чтобы прогон занимал миллисекунды
type Delays struct {
	CalendarTimeout time.Duration
	CalendarPoll    time.Duration
	AfterHover      time.Duration
	AfterSelect     time.Duration
	BeforeSubmit    time.Duration
	BetweenClicks   time.Duration
}

// DefaultDelays паузы, подобранные под реальный портал
func DefaultDelays() Delays {
	return Delays{
		CalendarTimeout: 5 * time.Second,
		CalendarPoll:    200 * time.Millisecond,
		AfterHover:      400 * time.Millisecond,
		AfterSelect:     500 * time.Millisecond,
		BeforeSubmit:    500 * time.Millisecond,
		BetweenClicks:   200 * time.Millisecond,
	}
}
