package scan_deliveries

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type Monitor interface {
	RunPass(ctx context.Context) ([]domain.DeliveryRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
