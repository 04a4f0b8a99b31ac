package start_autocatch

import (
	"fmt"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"
)

// StartAutoCatchRequest HTTP request model
type StartAutoCatchRequest struct {
	IntervalSeconds int            `json:"intervalSeconds"`
	Filters         FiltersPayload `json:"filters"`
}

// FiltersPayload критерии подбора даты в формате popup-клиента
type FiltersPayload struct {
	DateMode            string  `json:"dateMode"`
	SpecificDate        *string `json:"specificDate,omitempty"` // "2025-10-13"
	DateFrom            *string `json:"dateFrom,omitempty"`
	DateTo              *string `json:"dateTo,omitempty"`
	FilterByCoefficient bool    `json:"filterByCoefficient"`
	CoefficientFrom     float64 `json:"coefficientFrom"`
	CoefficientTo       float64 `json:"coefficientTo"`
	AllowFree           bool    `json:"allowFree"`
	BoxType             string  `json:"boxType"`
	MonopalletCount     int     `json:"monopalletCount"`
}

// StartAutoCatchResponse HTTP response model
type StartAutoCatchResponse struct {
	Success bool `json:"success"`
}

// ToSettings конвертирует HTTP запрос в настройки воркфлоу
func (r *StartAutoCatchRequest) ToSettings() (autocatch.Settings, error) {
	filters := domain.FilterCriteria{
		DateMode:            domain.DateMode(r.Filters.DateMode),
		FilterByCoefficient: r.Filters.FilterByCoefficient,
		CoefficientFrom:     r.Filters.CoefficientFrom,
		CoefficientTo:       r.Filters.CoefficientTo,
		AllowFree:           r.Filters.AllowFree,
		BoxType:             domain.BoxType(r.Filters.BoxType),
		MonopalletCount:     r.Filters.MonopalletCount,
	}
	if filters.DateMode == "" {
		filters.DateMode = domain.DateModeAny
	}
	if filters.BoxType == "" {
		filters.BoxType = domain.BoxTypeBox
	}

	var err error
	if filters.SpecificDate, err = parseDate(r.Filters.SpecificDate); err != nil {
		return autocatch.Settings{}, err
	}
	if filters.DateFrom, err = parseDate(r.Filters.DateFrom); err != nil {
		return autocatch.Settings{}, err
	}
	if filters.DateTo, err = parseDate(r.Filters.DateTo); err != nil {
		return autocatch.Settings{}, err
	}

	return autocatch.Settings{
		Interval: time.Duration(r.IntervalSeconds) * time.Second,
		Filters:  filters,
	}, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *s, err)
	}
	return &t, nil
}
