package activation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

const settingsKey = "license_key"

// ErrNetworkFailure возвращается, когда сервер лицензий недоступен
var ErrNetworkFailure = errors.New("activation: license server unreachable")

// Service хранит состояние активации лицензии
// Вся автоматика открывается только при валидном ключе
type Service struct {
	verifier Verifier
	store    SettingsStore
	logger   Logger

	valid atomic.Bool
}

// NewService создает новый экземпляр сервиса активации
func NewService(verifier Verifier, store SettingsStore, logger Logger) *Service {
	return &Service{
		verifier: verifier,
		store:    store,
		logger:   logger,
	}
}

// Valid возвращает true при активированной лицензии
func (s *Service) Valid() bool {
	return s.valid.Load()
}

// Activate проверяет ключ и при успехе сохраняет его
func (s *Service) Activate(ctx context.Context, key string) (*domain.LicenseVerification, error) {
	result, err := s.verifier.Verify(ctx, key)
	if err != nil {
		s.logger.Error("Activate: license server error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}

	s.valid.Store(result.Valid)
	if !result.Valid {
		s.logger.Warn("Activate: key rejected: %s", result.Error)
		return result, nil
	}

	if err := s.store.SetSetting(ctx, settingsKey, key); err != nil {
		s.logger.Error("Activate: failed to persist license key: %v", err)
	}
	s.logger.Info("License activated, %d days left", result.DaysLeft)
	return result, nil
}

// Restore перепроверяет сохраненный ключ при старте процесса
func (s *Service) Restore(ctx context.Context) {
	var key string
	if err := s.store.GetSetting(ctx, settingsKey, &key); err != nil {
		s.logger.Info("No stored license key: %v", err)
		return
	}
	if _, err := s.Activate(ctx, key); err != nil {
		s.logger.Warn("Stored license key re-verification failed: %v", err)
	}
}
