package get_catch_history

import (
	"net/http"
	"strconv"

	"github.com/m04kA/WB-SupplyBot/internal/api/handlers"
	"github.com/m04kA/WB-SupplyBot/internal/domain"
)

const (
	msgInvalidLimit = "некорректное значение limit"
)

type Handler struct {
	repo   HistoryRepository
	logger Logger
}

func NewHandler(repo HistoryRepository, logger Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type response struct {
	Success bool                 `json:"success"`
	Catches []domain.CatchRecord `json:"catches"`
}

// Handle GET /api/v1/autocatch/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /autocatch/history - Invalid limit %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	catches, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /autocatch/history - Failed to list catches: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if catches == nil {
		catches = []domain.CatchRecord{}
	}
	handlers.RespondJSON(w, http.StatusOK, response{
		Success: true,
		Catches: catches,
	})
}
