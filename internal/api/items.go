package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rewearhq/rewear/internal/imaging"
	"github.com/rewearhq/rewear/internal/model"
	"github.com/rewearhq/rewear/internal/points"
	"github.com/rewearhq/rewear/internal/store"
)

// Upload limits, matching the public contract: up to 5 images per
// listing, 10MB each.
const (
	maxImageSize  = 10 << 20
	maxImageCount = 5
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	DB        *sql.DB
	UploadDir string
}

type updateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition"`
	Color       string   `json:"color"`
	Material    string   `json:"material"`
	Tags        []string `json:"tags"`
	Points      *int     `json:"points"`
	Status      string   `json:"status"`
}

// List handles GET /api/items. This is the public browse/search
// endpoint, so only active listings are ever returned; a status query
// parameter is accepted but pinned to active.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ItemFilter{
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
		Status:    model.ItemStatusActive,
		Search:    q.Get("search"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	items, err := store.ListItems(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items. The body is a multipart form with
// the listing fields plus 1–5 image files. The listing always starts
// in the pending status no matter what the client sent. Omitting the
// points field selects automatic valuation.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImageCount*maxImageSize+(1<<20))
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form or payload too large")
		return
	}

	var errs []FieldError
	required := func(field string) string {
		v := strings.TrimSpace(r.FormValue(field))
		if v == "" {
			errs = append(errs, FieldError{Field: field, Message: "required"})
		}
		return v
	}

	title := required("title")
	description := required("description")
	category := required("category")
	condition := required("condition")

	uploads := r.MultipartForm.File["images"]
	if len(uploads) == 0 {
		errs = append(errs, FieldError{Field: "images", Message: "at least one image required"})
	}
	if len(uploads) > maxImageCount {
		errs = append(errs, FieldError{Field: "images", Message: "at most 5 images allowed"})
	}
	for _, header := range uploads {
		if header.Size > maxImageSize {
			errs = append(errs, FieldError{Field: "images", Message: "each image must be at most 10MB"})
			break
		}
	}

	value := 0
	manual := false
	if v := strings.TrimSpace(r.FormValue("points")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "points", Message: "must be a non-negative integer"})
		} else {
			value = n
			manual = true
		}
	}

	if len(errs) > 0 {
		jsonValidationError(w, errs)
		return
	}

	if !manual {
		value = points.Compute(category, condition)
	}

	var tags []string
	if v := strings.TrimSpace(r.FormValue("tags")); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	// Process and store images only after the fields validated.
	var images []string
	for _, header := range uploads {
		file, err := header.Open()
		if err != nil {
			jsonError(w, http.StatusBadRequest, "failed to read image upload")
			return
		}
		result, err := imaging.Process(file)
		file.Close()
		if err != nil {
			jsonValidationError(w, []FieldError{{Field: "images", Message: err.Error()}})
			return
		}
		path, err := imaging.Save(h.UploadDir, result)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
		images = append(images, path)
	}

	item := &model.Item{
		Title:       title,
		Description: description,
		Brand:       strings.TrimSpace(r.FormValue("brand")),
		Category:    category,
		Size:        strings.TrimSpace(r.FormValue("size")),
		Condition:   condition,
		Color:       strings.TrimSpace(r.FormValue("color")),
		Material:    strings.TrimSpace(r.FormValue("material")),
		Tags:        tags,
		Images:      images,
		Points:      value,
		OwnerID:     principal.ID,
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	logrus.WithFields(logrus.Fields{"item": created.ID, "owner": principal.ID}).Info("item listed")
	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/items/{id}. Attribute fields that are empty
// or omitted keep their current value, so a moderation call can carry
// just the status. Status changes are admin-only and must follow the
// listing lifecycle; the swapped status is reserved for settlement.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if item.OwnerID != principal.ID && !principal.IsAdmin {
		jsonError(w, http.StatusForbidden, "not authorized")
		return
	}

	if req.Status != "" && req.Status != item.Status {
		// Moderation is admin-only; non-admins get the authorization
		// failure no matter what transition they asked for.
		if !principal.IsAdmin {
			jsonError(w, http.StatusForbidden, "not authorized")
			return
		}
		if !model.ItemStatusValid(req.Status) {
			jsonValidationError(w, []FieldError{{Field: "status", Message: "unknown status"}})
			return
		}
		if req.Status == model.ItemStatusSwapped {
			jsonValidationError(w, []FieldError{{Field: "status", Message: "set by swap settlement"}})
			return
		}
		if !model.ItemCanTransition(item.Status, req.Status) {
			jsonValidationError(w, []FieldError{{Field: "status", Message: "illegal status transition"}})
			return
		}
		if err := store.TransitionItem(r.Context(), h.DB, id, item.Status, req.Status); err != nil {
			if errors.Is(err, store.ErrConflict) {
				jsonError(w, http.StatusConflict, "item status changed concurrently")
				return
			}
			jsonError(w, http.StatusInternalServerError, "failed to update item status")
			return
		}
		logrus.WithFields(logrus.Fields{
			"item": id, "from": item.Status, "to": req.Status, "admin": principal.ID,
		}).Info("item moderated")
	}

	applyIfSet(&item.Title, req.Title)
	applyIfSet(&item.Description, req.Description)
	applyIfSet(&item.Brand, req.Brand)
	applyIfSet(&item.Category, req.Category)
	applyIfSet(&item.Size, req.Size)
	applyIfSet(&item.Condition, req.Condition)
	applyIfSet(&item.Color, req.Color)
	applyIfSet(&item.Material, req.Material)
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	if req.Points != nil {
		if *req.Points < 0 {
			jsonValidationError(w, []FieldError{{Field: "points", Message: "must be non-negative"}})
			return
		}
		item.Points = *req.Points
	}

	if err := store.UpdateItemDetails(r.Context(), h.DB, item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if item.OwnerID != principal.ID && !principal.IsAdmin {
		jsonError(w, http.StatusForbidden, "not authorized")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrConflict) {
			jsonError(w, http.StatusConflict, "item has an accepted swap")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func applyIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
