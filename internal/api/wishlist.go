package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/rewearhq/rewear/internal/model"
	"github.com/rewearhq/rewear/internal/store"
)

// WishlistHandler handles wishlist endpoints.
type WishlistHandler struct {
	DB *sql.DB
}

type addWishlistRequest struct {
	ItemID int64 `json:"item_id"`
}

// List handles GET /api/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	entries, err := store.ListWishlistByUser(r.Context(), h.DB, principal.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list wishlist")
		return
	}
	if entries == nil {
		entries = []model.WishlistEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Add handles POST /api/wishlist. Saving an already-saved item returns
// the existing entry.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	var req addWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == 0 {
		jsonValidationError(w, []FieldError{{Field: "item_id", Message: "required"}})
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	entry, err := store.AddToWishlist(r.Context(), h.DB, principal.ID, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to add to wishlist")
		return
	}

	jsonResponse(w, http.StatusCreated, entry)
}

// Remove handles DELETE /api/wishlist/{itemId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	removed, err := store.RemoveFromWishlist(r.Context(), h.DB, principal.ID, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to remove from wishlist")
		return
	}
	if !removed {
		jsonError(w, http.StatusNotFound, "item not found in wishlist")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "removed from wishlist"})
}
