package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeDeliveries_NewRecordsAppended(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: "D-1", Status: DeliveryActive},
	}
	scanned := []DeliveryRecord{
		{ID: "D-2", Status: DeliveryPending},
	}

	merged := MergeDeliveries(existing, scanned)

	assert.Len(t, merged, 2)
	assert.Equal(t, "D-1", merged[0].ID)
	assert.Equal(t, "D-2", merged[1].ID)
}

func TestMergeDeliveries_RescanOverwritesFields(t *testing.T) {
	deadline := time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC)
	items := 10

	existing := []DeliveryRecord{
		{ID: "D-1", Status: DeliveryPending, Deadline: &deadline, ItemsCount: &items, Source: "scan"},
	}
	scanned := []DeliveryRecord{
		{ID: "D-1", Status: DeliveryActive},
	}

	merged := MergeDeliveries(existing, scanned)

	assert.Len(t, merged, 1)
	// Статус перекрыт новым сканированием
	assert.Equal(t, DeliveryActive, merged[0].Status)
	// Незаполненные поля новой записи сохранили прежние значения
	assert.Equal(t, &deadline, merged[0].Deadline)
	assert.Equal(t, &items, merged[0].ItemsCount)
	assert.Equal(t, "scan", merged[0].Source)
}

func TestMergeDeliveries_MissingFromScanKept(t *testing.T) {
	existing := []DeliveryRecord{
		{ID: "D-1", Status: DeliveryCompleted},
	}

	merged := MergeDeliveries(existing, nil)

	assert.Len(t, merged, 1)
	assert.Equal(t, "D-1", merged[0].ID)
}

func TestDeliveryRecord_DeadlineWithin(t *testing.T) {
	now := time.Date(2025, time.October, 13, 12, 0, 0, 0, time.UTC)

	soon := now.Add(6 * time.Hour)
	far := now.Add(48 * time.Hour)
	passed := now.Add(-time.Hour)

	assert.True(t, (&DeliveryRecord{Deadline: &soon}).DeadlineWithin(now, DeadlineNotifyWindow))
	assert.False(t, (&DeliveryRecord{Deadline: &far}).DeadlineWithin(now, DeadlineNotifyWindow))
	assert.False(t, (&DeliveryRecord{Deadline: &passed}).DeadlineWithin(now, DeadlineNotifyWindow))
	assert.False(t, (&DeliveryRecord{}).DeadlineWithin(now, DeadlineNotifyWindow))
}

func TestCountDeliveryStats(t *testing.T) {
	deliveries := []DeliveryRecord{
		{ID: "1", Status: DeliveryActive},
		{ID: "2", Status: DeliveryActive},
		{ID: "3", Status: DeliveryPending},
		{ID: "4", Status: DeliveryCompleted},
		{ID: "5", Status: DeliveryCancelled},
	}

	stats := CountDeliveryStats(deliveries)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
}
