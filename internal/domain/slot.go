package domain

import (
	"sort"
	"time"
)

// DateSlot распарсенная информация о дате приемки из ячейки календаря
// Создается заново при каждом сканировании календаря и не переживает цикл workflow
type DateSlot struct {
	DisplayText     string     // исходный текст даты, например "13 октября, пн"
	ResolvedDate    *time.Time // nil, если дату не удалось распарсить
	AcceptanceLabel string     // текст приемки: "5x", "75%", "Бесплатно"
	Coefficient     float64
	IsFree          bool
	IsAvailable     bool
}

// HasDate возвращает true, если дата успешно распарсена
// Слоты без даты не участвуют в подборе
func (s *DateSlot) HasDate() bool {
	return s.ResolvedDate != nil
}

// SortSlotsByDate сортирует слоты по возрастанию даты (ближайшая первой)
// Слоты без распарсенной даты уходят в конец
func SortSlotsByDate(slots []*DateSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.ResolvedDate == nil {
			return false
		}
		if b.ResolvedDate == nil {
			return true
		}
		return a.ResolvedDate.Before(*b.ResolvedDate)
	})
}
