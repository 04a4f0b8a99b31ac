package generate_key

import "github.com/m04kA/WB-SupplyBot/internal/service/licenses/models"

// GenerateKeyRequest запрос администратора на выпуск ключа
type GenerateKeyRequest struct {
	Password     string `json:"password"`
	UserInfo     string `json:"userInfo"`
	DurationDays int    `json:"durationDays"`
}

func (r GenerateKeyRequest) ToServiceRequest() *models.GenerateRequest {
	return &models.GenerateRequest{
		AdminPassword: r.Password,
		UserInfo:      r.UserInfo,
		Days:          r.DurationDays,
	}
}
