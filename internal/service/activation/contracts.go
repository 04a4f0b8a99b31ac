package activation

import (
	"context"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Verifier проверка ключа на сервере лицензий
type Verifier interface {
	Verify(ctx context.Context, key string) (*domain.LicenseVerification, error)
}

// SettingsStore персистентное хранилище настроек
type SettingsStore interface {
	GetSetting(ctx context.Context, key string, out interface{}) error
	SetSetting(ctx context.Context, key string, value interface{}) error
}
