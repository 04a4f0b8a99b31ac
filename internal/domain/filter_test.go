package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestFilterCriteria_Matches_DateModeAny(t *testing.T) {
	f := FilterCriteria{DateMode: DateModeAny}

	slot := &DateSlot{
		ResolvedDate: datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)),
		Coefficient:  5,
	}

	assert.True(t, f.Matches(slot))

	// Слот без распознанной даты не подходит даже в режиме any
	assert.False(t, f.Matches(&DateSlot{}))
}

func TestFilterCriteria_Matches_SpecificDate(t *testing.T) {
	target := time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC)
	f := FilterCriteria{
		DateMode:     DateModeSpecific,
		SpecificDate: datePtr(target),
	}

	sameDay := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC))}
	otherDay := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 14, 12, 0, 0, 0, time.UTC))}
	noDate := &DateSlot{}

	assert.True(t, f.Matches(sameDay))
	assert.False(t, f.Matches(otherDay))
	assert.False(t, f.Matches(noDate))
}

func TestFilterCriteria_Matches_SpecificDateNil(t *testing.T) {
	// Режим specific без даты вырождается в any
	f := FilterCriteria{DateMode: DateModeSpecific}

	assert.True(t, f.Matches(&DateSlot{
		ResolvedDate: datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)),
	}))
}

func TestFilterCriteria_Matches_DateRange(t *testing.T) {
	f := FilterCriteria{
		DateMode: DateModeRange,
		DateFrom: datePtr(time.Date(2025, time.October, 10, 15, 30, 0, 0, time.UTC)),
		DateTo:   datePtr(time.Date(2025, time.October, 20, 8, 0, 0, 0, time.UTC)),
	}

	// Границы включительные независимо от компонента времени
	lowerBoundary := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 10, 0, 30, 0, 0, time.UTC))}
	upperBoundary := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 20, 23, 0, 0, 0, time.UTC))}
	inside := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC))}
	before := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 9, 12, 0, 0, 0, time.UTC))}
	after := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 21, 12, 0, 0, 0, time.UTC))}

	assert.True(t, f.Matches(lowerBoundary))
	assert.True(t, f.Matches(upperBoundary))
	assert.True(t, f.Matches(inside))
	assert.False(t, f.Matches(before))
	assert.False(t, f.Matches(after))
	assert.False(t, f.Matches(&DateSlot{}))
}

func TestFilterCriteria_Matches_Coefficient(t *testing.T) {
	f := FilterCriteria{
		DateMode:            DateModeAny,
		FilterByCoefficient: true,
		CoefficientFrom:     0,
		CoefficientTo:       5,
	}

	day := datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC))

	assert.True(t, f.Matches(&DateSlot{ResolvedDate: day, Coefficient: 5}))
	assert.True(t, f.Matches(&DateSlot{ResolvedDate: day, Coefficient: 0}))
	assert.False(t, f.Matches(&DateSlot{ResolvedDate: day, Coefficient: 7}))
}

func TestFilterCriteria_Matches_FreeSlots(t *testing.T) {
	// Бесплатные даты игнорируют диапазон коэффициентов
	// и управляются только флагом AllowFree
	denyFree := FilterCriteria{
		DateMode:            DateModeAny,
		FilterByCoefficient: true,
		CoefficientFrom:     0,
		CoefficientTo:       10,
		AllowFree:           false,
	}
	allowFree := denyFree
	allowFree.AllowFree = true

	free := &DateSlot{
		ResolvedDate: datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)),
		IsFree:       true,
		Coefficient:  0,
	}

	assert.False(t, denyFree.Matches(free))
	assert.True(t, allowFree.Matches(free))
}

func TestFilterCriteria_Matches_CoefficientDisabled(t *testing.T) {
	f := FilterCriteria{DateMode: DateModeAny}
	day := datePtr(time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC))

	assert.True(t, f.Matches(&DateSlot{ResolvedDate: day, Coefficient: 100}))
	assert.True(t, f.Matches(&DateSlot{ResolvedDate: day, IsFree: true}))
}

func TestSortSlotsByDate(t *testing.T) {
	late := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC))}
	early := &DateSlot{ResolvedDate: datePtr(time.Date(2025, time.October, 10, 12, 0, 0, 0, time.UTC))}
	noDate := &DateSlot{}

	slots := []*DateSlot{noDate, late, early}
	SortSlotsByDate(slots)

	assert.Equal(t, []*DateSlot{early, late, noDate}, slots)
}
