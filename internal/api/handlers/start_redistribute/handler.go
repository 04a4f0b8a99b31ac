package start_redistribute

import (
	"errors"
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/workflow/redistribute"
)

const (
	msgInvalidBody     = "некорректное тело запроса"
	msgAlreadyRunning  = "перераспределение уже запущено"
	msgEmptyArticle    = "артикул не указан"
	msgWarehouseNotSet = "склады отправления и назначения обязательны"
	msgSameWarehouse   = "склады отправления и назначения совпадают"
	msgInvalidQuantity = "количество должно быть больше нуля"
)

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

// Handle POST /api/v1/redistribute/start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartRedistributeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /redistribute/start - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.controller.Start(r.Context(), req.ToSettings()); err != nil {
		switch {
		case errors.Is(err, redistribute.ErrAlreadyRunning):
			h.logger.Warn("POST /redistribute/start - Already running")
			handlers.RespondConflict(w, msgAlreadyRunning)
		case errors.Is(err, redistribute.ErrEmptyArticle):
			handlers.RespondBadRequest(w, msgEmptyArticle)
		case errors.Is(err, redistribute.ErrWarehouseNotSet):
			handlers.RespondBadRequest(w, msgWarehouseNotSet)
		case errors.Is(err, redistribute.ErrSameWarehouse):
			handlers.RespondBadRequest(w, msgSameWarehouse)
		case errors.Is(err, redistribute.ErrInvalidQuantity):
			handlers.RespondBadRequest(w, msgInvalidQuantity)
		default:
			h.logger.Error("POST /redistribute/start - Failed to start: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /redistribute/start - Started: article %s, %s -> %s", req.Article, req.WarehouseFrom, req.WarehouseTo)
	handlers.RespondJSON(w, http.StatusOK, response{Success: true})
}
