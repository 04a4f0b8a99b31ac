package get_catch_history

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type HistoryRepository interface {
	List(ctx context.Context, limit int) ([]domain.CatchRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
