package start_redistribute

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type RedistributeController interface {
	Start(ctx context.Context, settings domain.RedistributionSettings) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
