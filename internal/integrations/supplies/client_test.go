package supplies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestGetWarehouseCoefficients_FiltersAndGroups(t *testing.T) {
	body := `[
		{"date":"2025-10-14T00:00:00Z","coefficient":0,"warehouseID":1,"warehouseName":"Коледино","allowUnload":true,"boxTypeName":"Короба","boxTypeID":2},
		{"date":"2025-10-13T00:00:00Z","coefficient":1,"warehouseID":1,"warehouseName":"Коледино","allowUnload":true,"boxTypeName":"Короба","boxTypeID":2},
		{"date":"2025-10-13T00:00:00Z","coefficient":5,"warehouseID":1,"warehouseName":"Коледино","allowUnload":true,"boxTypeName":"Короба","boxTypeID":2},
		{"date":"2025-10-13T00:00:00Z","coefficient":0,"warehouseID":1,"warehouseName":"Коледино","allowUnload":false,"boxTypeName":"Короба","boxTypeID":2},
		{"date":"2025-10-13T00:00:00Z","coefficient":1,"warehouseID":2,"warehouseName":"Тула","allowUnload":true,"boxTypeName":"Короба","boxTypeID":2}
	]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/acceptance/coefficients", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", 5*time.Second, nopLogger{})

	warehouses, err := client.GetWarehouseCoefficients(context.Background())
	require.NoError(t, err)
	require.Len(t, warehouses, 2)

	// Склад с большим числом открытых дат первым
	kole := warehouses[0]
	assert.Equal(t, int64(1), kole.ID)
	require.Len(t, kole.Dates, 2)

	// Даты по возрастанию
	assert.Equal(t, "2025-10-13T00:00:00Z", kole.Dates[0].Date)
	assert.Equal(t, "2025-10-14T00:00:00Z", kole.Dates[1].Date)

	// Бесплатная дата помечена
	assert.False(t, kole.Dates[0].IsFree)
	assert.True(t, kole.Dates[1].IsFree)

	tula := warehouses[1]
	assert.Equal(t, "Тула", tula.Name)
	require.Len(t, tula.Dates, 1)
}

func TestGetWarehouseCoefficients_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token", 5*time.Second, nopLogger{})

	_, err := client.GetWarehouseCoefficients(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetWarehouseCoefficients_TokenNotConfigured(t *testing.T) {
	client := NewClient("http://localhost", "", 5*time.Second, nopLogger{})

	_, err := client.GetWarehouseCoefficients(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAcceptable(t *testing.T) {
	assert.True(t, acceptable(coefficientRow{Coefficient: 0, AllowUnload: true}))
	assert.True(t, acceptable(coefficientRow{Coefficient: 1, AllowUnload: true}))
	assert.False(t, acceptable(coefficientRow{Coefficient: 2, AllowUnload: true}))
	assert.False(t, acceptable(coefficientRow{Coefficient: 0, AllowUnload: false}))
}
