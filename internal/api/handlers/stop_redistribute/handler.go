package stop_redistribute

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/redistribute"
)

const msgNotRunning = "перераспределение не запущено"

type Handler struct {
	controller RedistributeController
	logger     Logger
}

func NewHandler(controller RedistributeController, logger Logger) *Handler {
	return &Handler{
		controller: controller,
		logger:     logger,
	}
}

type response struct {
	Success bool `json:"success"`
}

// Handle POST /api/v1/redistribute/stop
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Stop(r.Context()); err != nil {
		if errors.Is(err, redistribute.ErrNotRunning) {
			h.logger.Warn("POST /redistribute/stop - Not running")
			handlers.RespondConflict(w, msgNotRunning)
			return
		}
		h.logger.Error("POST /redistribute/stop - Failed to stop: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /redistribute/stop - Stopped")
	handlers.RespondJSON(w, http.StatusOK, response{Success: true})
}
