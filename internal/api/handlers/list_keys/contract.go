package list_keys

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/service/licenses/models"
)

type LicenseService interface {
	List(ctx context.Context, adminPassword string) (*models.KeyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
