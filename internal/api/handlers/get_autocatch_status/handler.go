package get_autocatch_status

import (
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
)

type Handler struct {
	controller AutocatchController
	logger     Logger
}

func NewHandler(controller AutocatchController, logger Logger) *Handler {
	return &Handler{
		controller: controller,
		logger:     logger,
	}
}

// Handle GET /api/v1/autocatch/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	status := h.controller.Status()
	handlers.RespondJSON(w, http.StatusOK, status)
}
