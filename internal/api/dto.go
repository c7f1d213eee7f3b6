package api

import "promptvault/internal/models"

// ItemListResponse is the payload of GET /api/items.
type ItemListResponse struct {
	Items []models.CatalogItem `json:"items"`
	Total int                  `json:"total"`
}

// CategoryListResponse is the payload of GET /api/categories.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
}

// MessageListResponse is the payload of GET /api/admin/messages.
type MessageListResponse struct {
	Messages []models.ContactMessage `json:"messages"`
}

// WishlistResponse is the payload of GET /api/wishlist and the toggle result.
type WishlistResponse struct {
	Wishlist []string `json:"wishlist"`
	Added    bool     `json:"added,omitempty"`
}

// AuthStatusResponse reports the session and PIN guard state.
type AuthStatusResponse struct {
	IdentityVerified  bool   `json:"identityVerified"`
	PINVerified       bool   `json:"pinVerified"`
	GuardState        string `json:"guardState"`
	DigitsEntered     int    `json:"digitsEntered"`
	RetryAfterSeconds int    `json:"retryAfterSeconds,omitempty"`
}

// EnhanceResponse is the payload of POST /api/admin/enhance.
type EnhanceResponse struct {
	Description string `json:"description"`
}
