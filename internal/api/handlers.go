package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptvault/internal/catalog"
	"promptvault/internal/enhance"
	"promptvault/internal/guard"
	"promptvault/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *catalog.Service
	guard    *guard.PinGuard
	verifier guard.Verifier
	sess     *Sessions
	enhancer enhance.Enhancer
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service, g *guard.PinGuard, verifier guard.Verifier, sess *Sessions, enhancer enhance.Enhancer) *Handler {
	if enhancer == nil {
		enhancer = enhance.Disabled{}
	}
	return &Handler{svc: svc, guard: g, verifier: verifier, sess: sess, enhancer: enhancer}
}

// ListItems handles GET /api/items. Query params: category (default "all"),
// q (search text), sort=newest to reverse into newest-first order.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = models.CategoryAll
	}

	items := h.svc.Query(category, q.Get("q"))
	if q.Get("sort") == "newest" {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: len(items)})
}

// GetItem handles GET /api/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.svc.GetItem(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: st.Categories})
}

// ListSocialLinks handles GET /api/social.
func (h *Handler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"socialLinks": st.SocialLinks})
}

// SubmitMessage handles POST /api/messages (public contact form).
func (h *Handler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Name == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name and message are required"))
		return
	}
	msg := h.svc.AddMessage(req.Name, req.Message)
	writeJSON(w, http.StatusCreated, msg)
}

// TrackVisit handles POST /api/visits.
func (h *Handler) TrackVisit(w http.ResponseWriter, _ *http.Request) {
	h.svc.TrackVisit()
	w.WriteHeader(http.StatusNoContent)
}

// GetWishlist handles GET /api/wishlist.
func (h *Handler) GetWishlist(w http.ResponseWriter, _ *http.Request) {
	st := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, WishlistResponse{Wishlist: st.Wishlist})
}

// ToggleWishlist handles POST /api/wishlist/{id}/toggle.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	added := h.svc.ToggleWishlist(id)
	st := h.svc.Snapshot()
	writeJSON(w, http.StatusOK, WishlistResponse{Wishlist: st.Wishlist, Added: added})
}
