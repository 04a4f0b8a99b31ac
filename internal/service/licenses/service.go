package licenses

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
	keyRepo "github.com/m04kA/WB-SupplyBot/internal/infra/storage/licensekeys"
	"github.com/m04kA/WB-SupplyBot/internal/service/licenses/models"
)

const defaultValidityDays = 30

// Service сервис управления лицензионными ключами
type Service struct {
	repo          KeyRepository
	adminPassword string
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса лицензий
func NewService(repo KeyRepository, adminPassword string, timeProvider TimeProvider, logger Logger) *Service {
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}
	return &Service{
		repo:          repo,
		adminPassword: adminPassword,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// Generate выпускает новый ключ вида WB-XXXX-XXXX-XXXX-XXXX
func (s *Service) Generate(ctx context.Context, req *models.GenerateRequest) (*models.KeyResponse, error) {
	if err := s.checkAdmin(req.AdminPassword); err != nil {
		return nil, err
	}

	days := req.Days
	if days <= 0 {
		days = defaultValidityDays
	}

	keyStr, err := NewKeyString()
	if err != nil {
		return nil, fmt.Errorf("%w: Generate - key generation: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	key := &domain.LicenseKey{
		Key:       keyStr,
		UserInfo:  req.UserInfo,
		IsActive:  true,
		ExpiresAt: now.AddDate(0, 0, days),
	}

	created, err := s.repo.Create(ctx, key)
	if err != nil {
		s.logger.Error("Generate: repository error: %v", err)
		return nil, fmt.Errorf("%w: Generate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Generate: issued key id=%d for %q, valid %d days", created.ID, req.UserInfo, days)
	return models.FromDomainKey(created), nil
}

// List возвращает все ключи
func (s *Service) List(ctx context.Context, adminPassword string) (*models.KeyListResponse, error) {
	if err := s.checkAdmin(adminPassword); err != nil {
		return nil, err
	}

	keys, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainKeys(keys), nil
}

// Deactivate выключает ключ
func (s *Service) Deactivate(ctx context.Context, adminPassword, keyStr string) error {
	if err := s.checkAdmin(adminPassword); err != nil {
		return err
	}

	key, err := s.resolve(ctx, "Deactivate", keyStr)
	if err != nil {
		return err
	}
	return s.mutate("Deactivate", key.ID, s.repo.SetActive(ctx, key.ID, false))
}

// Extend продлевает срок действия ключа и заново активирует его
func (s *Service) Extend(ctx context.Context, adminPassword, keyStr string, days int) error {
	if err := s.checkAdmin(adminPassword); err != nil {
		return err
	}
	if days <= 0 {
		return fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}

	key, err := s.resolve(ctx, "Extend", keyStr)
	if err != nil {
		return err
	}
	return s.mutate("Extend", key.ID, s.repo.ExtendExpiry(ctx, key.ID, days))
}

// Delete удаляет ключ
func (s *Service) Delete(ctx context.Context, adminPassword, keyStr string) error {
	if err := s.checkAdmin(adminPassword); err != nil {
		return err
	}

	key, err := s.resolve(ctx, "Delete", keyStr)
	if err != nil {
		return err
	}
	return s.mutate("Delete", key.ID, s.repo.Delete(ctx, key.ID))
}

// Verify проверяет ключ и отмечает момент проверки
// Невалидный ключ не ошибка: возвращается результат с Valid=false
// и человекочитаемой причиной
func (s *Service) Verify(ctx context.Context, keyStr string) (*domain.LicenseVerification, error) {
	keyStr = strings.TrimSpace(keyStr)
	if keyStr == "" {
		return &domain.LicenseVerification{Valid: false, Error: "Лицензионный ключ не указан"}, nil
	}

	key, err := s.repo.GetByKey(ctx, keyStr)
	if err != nil {
		if errors.Is(err, keyRepo.ErrKeyNotFound) {
			s.logger.Warn("Verify: unknown key %s", keyStr)
			return &domain.LicenseVerification{Valid: false, Error: "Лицензионный ключ не найден"}, nil
		}
		s.logger.Error("Verify: repository error: %v", err)
		return nil, fmt.Errorf("%w: Verify - repository error: %v", ErrInternal, err)
	}

	if !key.IsActive {
		return &domain.LicenseVerification{Valid: false, Error: "Лицензионный ключ деактивирован"}, nil
	}

	now := s.timeProvider.Now()
	if key.Expired(now) {
		expiresAt := key.ExpiresAt
		return &domain.LicenseVerification{
			Valid:     false,
			Expired:   true,
			ExpiresAt: &expiresAt,
			Error:     "Срок действия лицензии истек",
		}, nil
	}

	if err := s.repo.TouchLastUsed(ctx, key.ID); err != nil {
		s.logger.Warn("Verify: failed to touch last_used for key id=%d: %v", key.ID, err)
	}

	expiresAt := key.ExpiresAt
	return &domain.LicenseVerification{
		Valid:     true,
		DaysLeft:  key.DaysLeft(now),
		ExpiresAt: &expiresAt,
		UserInfo:  key.UserInfo,
	}, nil
}

func (s *Service) resolve(ctx context.Context, op, keyStr string) (*domain.LicenseKey, error) {
	key, err := s.repo.GetByKey(ctx, strings.TrimSpace(keyStr))
	if err != nil {
		if errors.Is(err, keyRepo.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		s.logger.Error("%s: repository error for key %s: %v", op, keyStr, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return key, nil
}

func (s *Service) mutate(op string, id int64, err error) error {
	if err != nil {
		if errors.Is(err, keyRepo.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		s.logger.Error("%s: repository error for key id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	s.logger.Info("%s: key id=%d updated", op, id)
	return nil
}

func (s *Service) checkAdmin(password string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// NewKeyString генерирует ключ вида WB-XXXX-XXXX-XXXX-XXXX
// из криптографически случайных байт
func NewKeyString() (string, error) {
	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	hexStr := strings.ToUpper(hex.EncodeToString(raw))
	parts := make([]string, 0, 4)
	for i := 0; i < len(hexStr); i += 4 {
		parts = append(parts, hexStr[i:i+4])
	}
	return "WB-" + strings.Join(parts, "-"), nil
}
