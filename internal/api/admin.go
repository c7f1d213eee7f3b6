package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"promptvault/internal/apperr"
	"promptvault/internal/models"
	"promptvault/internal/store"
)

const maxImportSize = 16 << 20

type createItemRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ImageURL    string              `json:"imageUrl"`
	CategoryID  string              `json:"categoryId"`
	Tags        []string            `json:"tags"`
	Format      string              `json:"format"`
	Recipe      []models.RecipeStep `json:"recipe"`
}

func (r createItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.CategoryID, validation.Required),
		validation.Field(&r.Format, validation.In("", models.FormatSquare, models.FormatThumbnail)),
	)
}

// CreateItem handles POST /api/admin/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	item := h.svc.AddItem(models.CatalogItem{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Format:      req.Format,
		Recipe:      req.Recipe,
	})
	writeJSON(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/admin/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteItem(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (r createCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// CreateCategory handles POST /api/admin/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cat, err := h.svc.AddCategory(req.Name, req.Icon)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		writeJSON(w, http.StatusConflict, errorBody("category already exists"))
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("this category cannot be deleted"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createSocialLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (r createSocialLinkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Platform, validation.Required),
		validation.Field(&r.URL, validation.Required),
	)
}

// CreateSocialLink handles POST /api/admin/social.
func (h *Handler) CreateSocialLink(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createSocialLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	link := h.svc.AddSocialLink(req.Platform, req.URL)
	writeJSON(w, http.StatusCreated, link)
}

// DeleteSocialLink handles DELETE /api/admin/social/{id}.
func (h *Handler) DeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteSocialLink(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages handles GET /api/admin/messages.
func (h *Handler) ListMessages(w http.ResponseWriter, _ *http.Request) {
	st := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, MessageListResponse{Messages: st.Messages})
}

// DeleteMessage handles DELETE /api/admin/messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteMessage(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearMessages handles DELETE /api/admin/messages.
func (h *Handler) ClearMessages(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearMessages()
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles GET /api/admin/stats.
func (h *Handler) GetStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// ExportBackup handles GET /api/admin/export. The response is the full state
// blob as a dated JSON attachment.
func (h *Handler) ExportBackup(w http.ResponseWriter, _ *http.Request) {
	st := h.svc.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", store.ExportFilename(time.Now())))
	if err := store.Export(w, st); err != nil {
		slog.Error("backup export failed", slog.String("error", err.Error()))
	}
}

// ImportBackup handles POST /api/admin/import with the raw backup JSON as the
// request body. A payload without a recognizable item list is rejected and the
// current state stays untouched.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unable to read request body"))
		return
	}
	if err := h.svc.ImportBackup(data); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unrecognized backup file"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// UpdatePIN handles PUT /api/admin/pin.
func (h *Handler) UpdatePIN(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdatePIN(req.PIN); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("PIN must be exactly 4 digits"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCredentials handles PUT /api/admin/credentials.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdateCredentials(req.Username, req.Password); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("username and password are required"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Enhance handles POST /api/admin/enhance: expands a short idea into a full
// item description via the configured provider.
func (h *Handler) Enhance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Idea string `json:"idea"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Idea == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("idea is required"))
		return
	}

	text, err := h.enhancer.Enhance(r.Context(), req.Idea)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody("enhancement unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, EnhanceResponse{Description: text})
}
