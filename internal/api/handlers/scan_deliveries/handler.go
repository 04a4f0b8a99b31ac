package scan_deliveries

import (
	"net/http"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

type Handler struct {
	monitor Monitor
	logger  Logger
}

func NewHandler(monitor Monitor, logger Logger) *Handler {
	return &Handler{
		monitor: monitor,
		logger:  logger,
	}
}

type response struct {
	Success    bool                    `json:"success"`
	Count      int                     `json:"count"`
	Deliveries []domain.DeliveryRecord `json:"deliveries"`
}

// Handle POST /api/v1/deliveries/scan
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.monitor.RunPass(r.Context())
	if err != nil {
		h.logger.Error("POST /deliveries/scan - Failed to scan: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, response{
		Success:    true,
		Count:      len(deliveries),
		Deliveries: deliveries,
	})
}
