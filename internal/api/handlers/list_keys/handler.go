package list_keys

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/service/licenses"
	"github.com/m04kA/WB-SupplyBot/internal/service/licenses/models"
)

const (
	msgInvalidBody   = "некорректное тело запроса"
	msgWrongPassword = "Неверный пароль"
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

// ListKeysRequest запрос администратора на список ключей
type ListKeysRequest struct {
	Password string `json:"password"`
}

type response struct {
	Success bool                 `json:"success"`
	Keys    []models.KeyResponse `json:"keys"`
}

// Handle POST /admin/list-keys
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ListKeysRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/list-keys - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	list, err := h.service.List(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, licenses.ErrWrongPassword) {
			h.logger.Warn("POST /admin/list-keys - Wrong admin password")
			handlers.RespondError(w, http.StatusForbidden, msgWrongPassword)
			return
		}
		h.logger.Error("POST /admin/list-keys - Failed to list: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, response{Success: true, Keys: list.Keys})
}
