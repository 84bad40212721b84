package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/rewearhq/rewear/internal/model"
	"github.com/rewearhq/rewear/internal/store"
)

// UsersHandler handles per-user endpoints.
type UsersHandler struct {
	DB *sql.DB
}

// GetItems handles GET /api/users/{id}/items. Users see only their own
// listings; admins see anyone's.
func (h *UsersHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if id != principal.ID && !principal.IsAdmin {
		jsonError(w, http.StatusForbidden, "not authorized")
		return
	}

	items, err := store.ListItemsByOwner(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}
