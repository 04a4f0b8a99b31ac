package verify_key

import (
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
)

const msgInvalidBody = "некорректное тело запроса"

type Handler struct {
	service LicenseService
	logger  Logger
}

func NewHandler(service LicenseService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// VerifyKeyRequest запрос расширения на проверку ключа
type VerifyKeyRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// Handle POST /api/verify-license
// Невалидный ключ не ошибка HTTP: ответ всегда 200 с Valid=false
// и причиной, сетевые и серверные сбои отдают 500
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyKeyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /api/verify-license - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Verify(r.Context(), req.LicenseKey)
	if err != nil {
		h.logger.Error("POST /api/verify-license - Failed to verify: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
