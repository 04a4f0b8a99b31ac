package generate_key

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

type response struct {
	Success bool               `json:"success"`
	Key     *models.KeyResponse `json:"key"`
}

// Handle POST /admin/generate-key
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateKeyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/generate-key - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	key, err := h.service.Generate(r.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, licenses.ErrWrongPassword) {
			h.logger.Warn("POST /admin/generate-key - Wrong admin password")
			handlers.RespondError(w, http.StatusForbidden, msgWrongPassword)
			return
		}
		h.logger.Error("POST /admin/generate-key - Failed to generate: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/generate-key - Issued key id=%d", key.ID)
	handlers.RespondJSON(w, http.StatusOK, response{Success: true, Key: key})
}
