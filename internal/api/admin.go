package api

import (
	"database/sql"
	"net/http"

	"github.com/rewearhq/rewear/internal/model"
	"github.com/rewearhq/rewear/internal/store"
)

// AdminHandler handles moderation queues and aggregates. All routes are
// behind RequireAdmin.
type AdminHandler struct {
	DB *sql.DB
}

// PendingItems handles GET /api/admin/items/pending.
func (h *AdminHandler) PendingItems(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, model.ItemStatusPending)
}

// FlaggedItems handles GET /api/admin/items/flagged.
func (h *AdminHandler) FlaggedItems(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, model.ItemStatusFlagged)
}

func (h *AdminHandler) listByStatus(w http.ResponseWriter, r *http.Request, status string) {
	items, err := store.ListItems(r.Context(), h.DB, store.ItemFilter{Status: status})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
