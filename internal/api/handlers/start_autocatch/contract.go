package start_autocatch

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"
)

type AutocatchController interface {
	Start(ctx context.Context, settings autocatch.Settings) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
