package extend_key

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/service/licenses"
)

const (
	msgInvalidBody   = "некорректное тело запроса"
	msgWrongPassword = "Неверный пароль"
	msgKeyNotFound   = "Ключ не найден"
	msgInvalidDays   = "Укажите срок продления"
)

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

// ExtendKeyRequest запрос администратора на продление ключа
type ExtendKeyRequest struct {
	Password       string `json:"password"`
	LicenseKey     string `json:"licenseKey"`
	AdditionalDays int    `json:"additionalDays"`
}

type response struct {
	Success bool `json:"success"`
}

// Handle POST /admin/extend-key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ExtendKeyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/extend-key - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.Extend(r.Context(), req.Password, req.LicenseKey, req.AdditionalDays); err != nil {
		switch {
		case errors.Is(err, licenses.ErrWrongPassword):
			h.logger.Warn("POST /admin/extend-key - Wrong admin password")
			handlers.RespondError(w, http.StatusForbidden, msgWrongPassword)
		case errors.Is(err, licenses.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDays)
		case errors.Is(err, licenses.ErrKeyNotFound):
			h.logger.Warn("POST /admin/extend-key - Key not found: %s", req.LicenseKey)
			handlers.RespondNotFound(w, msgKeyNotFound)
		default:
			h.logger.Error("POST /admin/extend-key - Failed to extend: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/extend-key - Extended key %s by %d days", req.LicenseKey, req.AdditionalDays)
	handlers.RespondJSON(w, http.StatusOK, response{Success: true})
}
