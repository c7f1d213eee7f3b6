package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptvault/internal/catalog"
	"promptvault/internal/enhance"
	"promptvault/internal/guard"
)

// NewRouter creates a chi router with all API routes mounted. Public routes
// serve the gallery; /auth routes drive the two-step admin gate; /admin routes
// require a session with both gate flags set. sseHandler, if non-nil, is
// mounted at GET /events.
func NewRouter(svc *catalog.Service, g *guard.PinGuard, verifier guard.Verifier, sess *Sessions, enhancer enhance.Enhancer, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, g, verifier, sess, enhancer)

	r := chi.NewRouter()

	// Public gallery.
	r.Get("/items", h.ListItems)
	r.Get("/items/{id}", h.GetItem)
	r.Get("/categories", h.ListCategories)
	r.Get("/social", h.ListSocialLinks)
	r.Post("/messages", h.SubmitMessage)
	r.Post("/visits", h.TrackVisit)
	r.Get("/wishlist", h.GetWishlist)
	r.Post("/wishlist/{id}/toggle", h.ToggleWishlist)

	// Admin gate.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/pin", h.SubmitPIN)
		r.Get("/status", h.AuthStatus)
		r.Post("/logout", h.Logout)
	})

	// Admin surface, both gate flags required.
	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(sess))

		r.Post("/items", h.CreateItem)
		r.Delete("/items/{id}", h.DeleteItem)

		r.Post("/categories", h.CreateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		r.Post("/social", h.CreateSocialLink)
		r.Delete("/social/{id}", h.DeleteSocialLink)

		r.Get("/messages", h.ListMessages)
		r.Delete("/messages", h.ClearMessages)
		r.Delete("/messages/{id}", h.DeleteMessage)

		r.Get("/stats", h.GetStats)

		r.Get("/export", h.ExportBackup)
		r.Post("/import", h.ImportBackup)

		r.Put("/pin", h.UpdatePIN)
		r.Put("/credentials", h.UpdateCredentials)

		r.Post("/enhance", h.Enhance)
	})

	// SSE event stream.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
