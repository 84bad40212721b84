package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/rewearhq/rewear/internal/model"
	"github.com/rewearhq/rewear/internal/store"
)

// SwapsHandler handles swap request endpoints.
type SwapsHandler struct {
	DB *sql.DB
}

type createSwapRequest struct {
	RequestedItemID int64  `json:"requested_item_id"`
	OfferedItemID   *int64 `json:"offered_item_id"`
	PointsOffered   *int   `json:"points_offered"`
	Message         string `json:"message"`
}

type updateSwapRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/swaps, returning the swaps the caller is a
// party to.
func (h *SwapsHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	swaps, err := store.ListSwapsByUser(r.Context(), h.DB, principal.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list swaps")
		return
	}
	if swaps == nil {
		swaps = []model.Swap{}
	}
	jsonResponse(w, http.StatusOK, swaps)
}

// Create handles POST /api/swaps. An offer is exactly one of an owned
// active item or a positive points amount within the requester's
// balance; the owner side of the swap is resolved from the requested
// item, never taken from the client.
func (h *SwapsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	var req createSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RequestedItemID == 0 {
		jsonValidationError(w, []FieldError{{Field: "requested_item_id", Message: "required"}})
		return
	}

	requested, err := store.GetItem(r.Context(), h.DB, req.RequestedItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if requested == nil {
		jsonError(w, http.StatusNotFound, "requested item not found")
		return
	}

	var errs []FieldError
	if requested.Status != model.ItemStatusActive {
		errs = append(errs, FieldError{Field: "requested_item_id", Message: "item is not available for swapping"})
	}
	if requested.OwnerID == principal.ID {
		errs = append(errs, FieldError{Field: "requested_item_id", Message: "cannot request your own item"})
	}

	// Exactly one offer mode.
	if (req.OfferedItemID == nil) == (req.PointsOffered == nil) {
		errs = append(errs, FieldError{Field: "offer", Message: "exactly one of offered_item_id or points_offered required"})
	}

	if req.PointsOffered != nil {
		if *req.PointsOffered <= 0 {
			errs = append(errs, FieldError{Field: "points_offered", Message: "must be positive"})
		} else if *req.PointsOffered > principal.Points {
			errs = append(errs, FieldError{Field: "points_offered", Message: "exceeds your points balance"})
		}
	}

	if req.OfferedItemID != nil {
		offered, err := store.GetItem(r.Context(), h.DB, *req.OfferedItemID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		switch {
		case offered == nil:
			errs = append(errs, FieldError{Field: "offered_item_id", Message: "item not found"})
		case offered.OwnerID != principal.ID:
			errs = append(errs, FieldError{Field: "offered_item_id", Message: "you do not own this item"})
		case offered.Status != model.ItemStatusActive:
			errs = append(errs, FieldError{Field: "offered_item_id", Message: "item is not available for swapping"})
		}
	}

	if len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	swap := &model.Swap{
		RequesterUserID: principal.ID,
		OwnerUserID:     requested.OwnerID,
		RequestedItemID: requested.ID,
		OfferedItemID:   req.OfferedItemID,
		PointsOffered:   req.PointsOffered,
		Message:         req.Message,
	}

	created, err := store.CreateSwap(r.Context(), h.DB, swap)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create swap")
		return
	}

	logrus.WithFields(logrus.Fields{
		"swap": created.ID, "requester": principal.ID, "item": requested.ID,
	}).Info("swap requested")
	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/swaps/{id}. Only the two parties may move a
// swap, and only along pending → accepted|rejected and accepted →
// completed. Completion settles points and item statuses atomically.
func (h *SwapsHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid swap id")
		return
	}

	var req updateSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		jsonValidationError(w, []FieldError{{Field: "status", Message: "required"}})
		return
	}

	swap, err := store.GetSwap(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get swap")
		return
	}
	if swap == nil {
		jsonError(w, http.StatusNotFound, "swap not found")
		return
	}

	if !swap.IsParty(principal.ID) {
		jsonError(w, http.StatusForbidden, "not authorized")
		return
	}

	if !model.SwapCanTransition(swap.Status, req.Status) {
		jsonValidationError(w, []FieldError{{Field: "status", Message: "illegal status transition"}})
		return
	}

	if req.Status == model.SwapStatusCompleted {
		err = store.CompleteSwap(r.Context(), h.DB, swap)
	} else {
		err = store.TransitionSwap(r.Context(), h.DB, id, swap.Status, req.Status)
	}
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			jsonError(w, http.StatusConflict, "swap status changed concurrently")
		case errors.Is(err, store.ErrInsufficientPoints):
			jsonError(w, http.StatusConflict, "requester no longer has enough points")
		default:
			jsonError(w, http.StatusInternalServerError, "failed to update swap")
		}
		return
	}

	updated, err := store.GetSwap(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get swap")
		return
	}

	logrus.WithFields(logrus.Fields{
		"swap": id, "from": swap.Status, "to": req.Status, "by": principal.ID,
	}).Info("swap updated")
	jsonResponse(w, http.StatusOK, updated)
}
