package start_autocatch

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/autocatch"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgAlreadyRunning     = "автоловля уже запущена"
	msgInvalidInterval    = "интервал должен быть положительным"
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

// Handle POST /api/v1/autocatch/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartAutoCatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /autocatch/start - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := req.ToSettings()
	if err != nil {
		h.logger.Warn("POST /autocatch/start - Failed to parse filters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.controller.Start(r.Context(), settings); err != nil {
		switch {
		case errors.Is(err, autocatch.ErrAlreadyRunning):
			h.logger.Warn("POST /autocatch/start - Already running")
			handlers.RespondConflict(w, msgAlreadyRunning)

		case errors.Is(err, autocatch.ErrInvalidInterval):
			h.logger.Warn("POST /autocatch/start - Invalid interval: %d", req.IntervalSeconds)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("POST /autocatch/start - Failed to start: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /autocatch/start - Started, interval=%ds", req.IntervalSeconds)
	handlers.RespondJSON(w, http.StatusOK, StartAutoCatchResponse{Success: true})
}
