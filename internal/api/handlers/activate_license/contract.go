package activate_license

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type ActivationService interface {
	Activate(ctx context.Context, key string) (*domain.LicenseVerification, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
