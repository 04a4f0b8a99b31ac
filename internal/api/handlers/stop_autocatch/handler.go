package stop_autocatch

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"
)

const msgNotRunning = "автоловля не запущена"

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

type response struct {
	Success bool `json:"success"`
}

// Handle POST /api/v1/autocatch/stop
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Stop(r.Context()); err != nil {
		if errors.Is(err, autocatch.ErrNotRunning) {
			h.logger.Warn("POST /autocatch/stop - Not running")
			handlers.RespondConflict(w, msgNotRunning)
			return
		}
		h.logger.Error("POST /autocatch/stop - Failed to stop: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /autocatch/stop - Stopped")
	handlers.RespondJSON(w, http.StatusOK, response{Success: true})
}
