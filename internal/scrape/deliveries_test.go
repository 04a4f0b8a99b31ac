package scrape

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WB-SupplyBot/internal/dom/domtest"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type silentLogger struct{}

func (silentLogger) Info(format string, v ...interface{})  {}
func (silentLogger) Warn(format string, v ...interface{})  {}
func (silentLogger) Error(format string, v ...interface{}) {}

func TestDeliveryScanner_Scan(t *testing.T) {
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	scanner := NewDeliveryScanner(fixedTime{now: now}, silentLogger{})

	page := domtest.NewPage(domtest.El("body").WithKids(
		domtest.El("tr", "data-supply", "1", "data-id", "SUP-100").
			WithText("Ожидает отгрузки 12 коробов до 10.10.2025"),
		domtest.El("tr", "data-supply", "1").
			WithText("WB-777 завершена 01.09.2025"),
		domtest.El("div", "class", "delivery-item").
			WithText("Новая поставка"),
		domtest.El("script", "type", "application/json").
			WithText(`{"supplies":[{"id":"S-1","status":"in_progress","createdAt":"2025-09-20T10:00:00Z","deadline":"2025-09-25","quantity":4}]}`),
	))

	records, err := scanner.Scan(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, records, 4)

	byID := map[string]domain.DeliveryRecord{}
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	// Идентификатор из data-атрибута
	pending, ok := byID["SUP-100"]
	require.True(t, ok)
	assert.Equal(t, domain.DeliveryPending, pending.Status)
	require.NotNil(t, pending.Deadline)
	assert.Equal(t, time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC), *pending.Deadline)
	require.NotNil(t, pending.ItemsCount)
	assert.Equal(t, 12, *pending.ItemsCount)
	assert.Equal(t, "page", pending.Source)

	// Идентификатор из текста строки
	completed, ok := byID["WB-777"]
	require.True(t, ok)
	assert.Equal(t, domain.DeliveryCompleted, completed.Status)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), completed.CreatedAt)
	assert.Nil(t, completed.Deadline)

	// Строка без идентификатора получает сгенерированный
	var generated *domain.DeliveryRecord
	for id, rec := range byID {
		if strings.HasPrefix(id, "delivery-") {
			r := rec
			generated = &r
		}
	}
	require.NotNil(t, generated)
	assert.Equal(t, domain.DeliveryPending, generated.Status)
	assert.Equal(t, now, generated.CreatedAt)

	// Запись из встроенного JSON-блока
	embedded, ok := byID["S-1"]
	require.True(t, ok)
	assert.Equal(t, domain.DeliveryActive, embedded.Status)
	assert.Equal(t, time.Date(2025, time.September, 20, 10, 0, 0, 0, time.UTC), embedded.CreatedAt)
	require.NotNil(t, embedded.Deadline)
	assert.Equal(t, time.Date(2025, time.September, 25, 0, 0, 0, 0, time.UTC), *embedded.Deadline)
	require.NotNil(t, embedded.ItemsCount)
	assert.Equal(t, 4, *embedded.ItemsCount)
	assert.Equal(t, "json", embedded.Source)
}

func TestDeliveryScanner_EmptyPage(t *testing.T) {
	scanner := NewDeliveryScanner(fixedTime{now: time.Now()}, silentLogger{})
	page := domtest.NewPage(domtest.El("body"))

	records, err := scanner.Scan(context.Background(), page)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMapStatusText(t *testing.T) {
	tests := []struct {
		text     string
		expected domain.DeliveryStatus
	}{
		{"Активная поставка", domain.DeliveryActive},
		{"ожидает приемки", domain.DeliveryPending},
		{"Завершена вчера", domain.DeliveryCompleted},
		{"Отменена продавцом", domain.DeliveryCancelled},
		{"In progress, active", domain.DeliveryActive},
		{"что-то неизвестное", domain.DeliveryActive},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapStatusText(tt.text))
		})
	}
}
