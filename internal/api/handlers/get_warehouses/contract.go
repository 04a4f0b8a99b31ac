package get_warehouses

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type SuppliesClient interface {
	GetWarehouseCoefficients(ctx context.Context) ([]domain.Warehouse, error)
}

type CacheStore interface {
	SetSetting(ctx context.Context, key string, value interface{}) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
