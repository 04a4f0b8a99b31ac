package generate_key

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/service/licenses/models"
)

type LicenseService interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.KeyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
