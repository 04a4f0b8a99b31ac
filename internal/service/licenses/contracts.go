package licenses

import (
	"context"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// KeyRepository репозиторий лицензионных ключей
type KeyRepository interface {
	Create(ctx context.Context, key *domain.LicenseKey) (*domain.LicenseKey, error)
	GetByKey(ctx context.Context, keyStr string) (*domain.LicenseKey, error)
	List(ctx context.Context) ([]domain.LicenseKey, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ExtendExpiry(ctx context.Context, id int64, days int) error
	TouchLastUsed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
