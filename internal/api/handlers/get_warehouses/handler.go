package get_warehouses

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/internal/integrations/supplies"
)

const (
	msgTokenNotConfigured = "API токен Wildberries не настроен"
	msgTokenRejected      = "API токен Wildberries отклонен"

	cacheKey = "warehouses_cache"
)

type Handler struct {
	client SuppliesClient
	cache  CacheStore
	logger Logger
}

func NewHandler(client SuppliesClient, cache CacheStore, logger Logger) *Handler {
	return &Handler{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

type cachedSnapshot struct {
	Warehouses []domain.Warehouse `json:"warehouses"`
	FetchedAt  time.Time          `json:"fetchedAt"`
}

type response struct {
	Success    bool               `json:"success"`
	Warehouses []domain.Warehouse `json:"warehouses"`
}

// Handle GET /api/v1/warehouses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.client.GetWarehouseCoefficients(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, supplies.ErrNotConfigured):
			h.logger.Warn("GET /warehouses - Token not configured")
			handlers.RespondBadRequest(w, msgTokenNotConfigured)
		case errors.Is(err, supplies.ErrUnauthorized):
			h.logger.Warn("GET /warehouses - Token rejected")
			handlers.RespondUnauthorized(w, msgTokenRejected)
		default:
			h.logger.Error("GET /warehouses - Failed to fetch coefficients: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	snapshot := cachedSnapshot{Warehouses: warehouses, FetchedAt: time.Now()}
	if err := h.cache.SetSetting(r.Context(), cacheKey, snapshot); err != nil {
		h.logger.Warn("GET /warehouses - Failed to cache snapshot: %v", err)
	}

	handlers.RespondJSON(w, http.StatusOK, response{
		Success:    true,
		Warehouses: warehouses,
	})
}
