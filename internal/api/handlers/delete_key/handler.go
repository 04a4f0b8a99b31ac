package delete_key

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

// DeleteKeyRequest запрос администратора на удаление ключа
type DeleteKeyRequest struct {
	Password   string `json:"password"`
	LicenseKey string `json:"licenseKey"`
}

type response struct {
	Success bool `json:"success"`
}

// Handle POST /admin/delete-key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DeleteKeyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/delete-key - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.Delete(r.Context(), req.Password, req.LicenseKey); err != nil {
		switch {
		case errors.Is(err, licenses.ErrWrongPassword):
			h.logger.Warn("POST /admin/delete-key - Wrong admin password")
			handlers.RespondError(w, http.StatusForbidden, msgWrongPassword)
		case errors.Is(err, licenses.ErrKeyNotFound):
			h.logger.Warn("POST /admin/delete-key - Key not found: %s", req.LicenseKey)
			handlers.RespondNotFound(w, msgKeyNotFound)
		default:
			h.logger.Error("POST /admin/delete-key - Failed to delete: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/delete-key - Deleted key %s", req.LicenseKey)
	handlers.RespondJSON(w, http.StatusOK, response{Success: true})
}
