package models

import (
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

// GenerateRequest запрос на выпуск нового ключа
type GenerateRequest struct {
	AdminPassword string `json:"adminPassword"`
	UserInfo      string `json:"userInfo"`
	Days          int    `json:"days"`
}

// KeyResponse ключ в ответах API
type KeyResponse struct {
	ID        int64      `json:"id"`
	Key       string     `json:"key"`
	UserInfo  string     `json:"userInfo"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
}

// KeyListResponse список ключей
type KeyListResponse struct {
	Keys []KeyResponse `json:"keys"`
}

// FromDomainKey конвертирует доменный ключ в ответ API
func FromDomainKey(key *domain.LicenseKey) *KeyResponse {
	return &KeyResponse{
		ID:        key.ID,
		Key:       key.Key,
		UserInfo:  key.UserInfo,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
		ExpiresAt: key.ExpiresAt,
		LastUsed:  key.LastUsed,
	}
}

// FromDomainKeys конвертирует список ключей
func FromDomainKeys(keys []domain.LicenseKey) *KeyListResponse {
	resp := &KeyListResponse{Keys: make([]KeyResponse, 0, len(keys))}
	for i := range keys {
		resp.Keys = append(resp.Keys, *FromDomainKey(&keys[i]))
	}
	return resp
}
