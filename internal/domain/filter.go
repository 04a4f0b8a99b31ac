package domain

import "time"

// DateMode режим фильтрации по дате
type DateMode string

const (
	DateModeAny      DateMode = "any"
	DateModeSpecific DateMode = "specific"
	DateModeRange    DateMode = "range"
)

// BoxType тип упаковки поставки
type BoxType string

const (
	BoxTypeBox        BoxType = "box"
	BoxTypeMonopallet BoxType = "monopallet"
)

// FilterCriteria пользовательские критерии подбора даты поставки
// Неизменяемы на протяжении одной сессии автоловли
type FilterCriteria struct {
	DateMode            DateMode   `json:"dateMode"`
	SpecificDate        *time.Time `json:"specificDate,omitempty"`
	DateFrom            *time.Time `json:"dateFrom,omitempty"`
	DateTo              *time.Time `json:"dateTo,omitempty"`
	FilterByCoefficient bool       `json:"filterByCoefficient"`
	CoefficientFrom     float64    `json:"coefficientFrom"`
	CoefficientTo       float64    `json:"coefficientTo"`
	AllowFree           bool       `json:"allowFree"`
	BoxType             BoxType    `json:"boxType"`
	MonopalletCount     int        `json:"monopalletCount"`
}

// Matches проверяет, удовлетворяет ли слот критериям фильтра
// Слот без распознанной даты не подходит ни в одном режиме
// Проверка даты выполняется первой и при несовпадении
// проверка коэффициента не выполняется
func (f *FilterCriteria) Matches(slot *DateSlot) bool {
	if !slot.HasDate() {
		return false
	}
	if !f.matchesDate(slot) {
		return false
	}
	return f.matchesCoefficient(slot)
}

func (f *FilterCriteria) matchesDate(slot *DateSlot) bool {
	switch f.DateMode {
	case DateModeSpecific:
		if f.SpecificDate == nil {
			return true
		}
		return isSameDay(*slot.ResolvedDate, *f.SpecificDate)

	case DateModeRange:
		if f.DateFrom == nil || f.DateTo == nil {
			return true
		}
		// Диапазон включительный: [from 00:00:00, to 23:59:59.999]
		from := startOfDay(*f.DateFrom)
		to := endOfDay(*f.DateTo)
		d := *slot.ResolvedDate
		return !d.Before(from) && !d.After(to)

	default:
		// DateModeAny - любая дата подходит
		return true
	}
}

func (f *FilterCriteria) matchesCoefficient(slot *DateSlot) bool {
	if !f.FilterByCoefficient {
		return true
	}

	// Бесплатные даты проходят только при разрешении AllowFree,
	// диапазон коэффициентов к ним не применяется
	if slot.IsFree {
		return f.AllowFree
	}

	return slot.Coefficient >= f.CoefficientFrom && slot.Coefficient <= f.CoefficientTo
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
// Компонент времени игнорируется
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
