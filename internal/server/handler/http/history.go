package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophDate/internal/middleware"
	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/service"
	"github.com/atinyakov/GophDate/internal/transfer"
)

// HistoryService reads and imports calculation history.
type HistoryService interface {
	GetUserCalculations(ctx context.Context, userID int64) ([]models.Calculation, error)
	Statistics(ctx context.Context, userID int64) (service.Stats, error)
	ImportCalculations(ctx context.Context, userID int64, calcs []models.Calculation) (int, error)
}

// HistoryHandler serves the history of the calling user.
// Guests always see an empty history.
type HistoryHandler struct {
	HistoryService HistoryService
}

// List handles GET /api/history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	calcs, err := h.HistoryService.GetUserCalculations(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, calcs)
}

// Stats handles GET /api/history/stats.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.HistoryService.Statistics(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, st)
}

// Export handles GET /api/history/export and answers with CSV.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	calcs, err := h.HistoryService.GetUserCalculations(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)
	_ = transfer.Export(w, calcs)
}

// Import handles POST /api/history/import with a CSV body.
// Guests cannot import.
func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u.IsGuest() {
		http.Error(w, "login required", http.StatusUnauthorized)
		return
	}
	calcs, err := transfer.Import(r.Body)
	if err != nil {
		http.Error(w, "invalid csv", http.StatusBadRequest)
		return
	}
	n, err := h.HistoryService.ImportCalculations(r.Context(), u.ID, calcs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int{"imported": n})
}
