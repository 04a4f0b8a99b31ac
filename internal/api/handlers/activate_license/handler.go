package activate_license

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/service/activation"
)

const (
	msgInvalidBody   = "некорректное тело запроса"
	msgEmptyKey      = "лицензионный ключ не указан"
	msgServerOffline = "сервер лицензий недоступен, попробуйте позже"
)

type Handler struct {
	service ActivationService
	logger  Logger
}

func NewHandler(service ActivationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/license/activate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ActivateLicenseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /license/activate - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if req.LicenseKey == "" {
		handlers.RespondBadRequest(w, msgEmptyKey)
		return
	}

	result, err := h.service.Activate(r.Context(), req.LicenseKey)
	if err != nil {
		if errors.Is(err, activation.ErrNetworkFailure) {
			h.logger.Warn("POST /license/activate - License server unreachable: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgServerOffline)
			return
		}
		h.logger.Error("POST /license/activate - Failed to activate: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /license/activate - Verified, valid=%t", result.Valid)
	handlers.RespondJSON(w, http.StatusOK, result)
}
