package domain

import "time"

// LicenseKey лицензионный ключ расширения
type LicenseKey struct {
	ID        int64      `json:"id"`
	Key       string     `json:"key"`
	UserInfo  string     `json:"userInfo"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
}

// Expired возвращает true, если срок действия ключа истек
func (k *LicenseKey) Expired(now time.Time) bool {
	return now.After(k.ExpiresAt)
}

// DaysLeft возвращает число полных дней до истечения ключа,
// ноль для истекших ключей
func (k *LicenseKey) DaysLeft(now time.Time) int {
	if k.Expired(now) {
		return 0
	}
	return int(k.ExpiresAt.Sub(now).Hours() / 24)
}

// LicenseVerification результат проверки ключа
type LicenseVerification struct {
	Valid     bool       `json:"valid"`
	Expired   bool       `json:"expired,omitempty"`
	DaysLeft  int        `json:"daysLeft,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UserInfo  string     `json:"userInfo,omitempty"`
	Error     string     `json:"error,omitempty"`
}
