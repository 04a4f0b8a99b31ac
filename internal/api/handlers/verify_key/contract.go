package verify_key

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type LicenseService interface {
	Verify(ctx context.Context, keyStr string) (*domain.LicenseVerification, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
