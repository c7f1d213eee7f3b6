// Package models defines the catalog data model and its built-in defaults.
package models

// Reserved category identifiers. "all" and "thumbnail" are stored defaults;
// "favorites" is virtual and computed from the wishlist, never persisted.
const (
	CategoryAll       = "all"
	CategoryThumbnail = "thumbnail"
	CategoryFavorites = "favorites"
)

// Display formats. Items without a format are treated as square.
const (
	FormatSquare    = "square"
	FormatThumbnail = "thumbnail"
)

// Default SHA-256 credential hashes used when the stored state carries none.
// Username "admin", password "admin123", PIN "0000".
const (
	DefaultUserHash = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"
	DefaultPassHash = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"
	DefaultPINHash  = "9af15b336e6a9619928537df30b2e6a2376569fcf9d7e773eccede65606529a0"
)

// RecipeStep is one step of an item's build recipe.
type RecipeStep struct {
	ID       string `json:"id"`
	Kind     string `json:"type"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// CatalogItem is a single browsable entry in the catalog.
type CatalogItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	CategoryID  string       `json:"categoryId"`
	Tags        []string     `json:"tags"`
	CreatedAt   int64        `json:"createdAt"` // unix milliseconds
	Format      string       `json:"format,omitempty"`
	Recipe      []RecipeStep `json:"recipe,omitempty"`
}

// EffectiveFormat returns the item's format, defaulting to square.
func (i CatalogItem) EffectiveFormat() string {
	if i.Format == "" {
		return FormatSquare
	}
	return i.Format
}

// Category is a named grouping key for catalog items. The ID doubles as the
// filter key used by the query engine.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// ContactMessage is a public contact-form submission. Messages expire after
// MessageRetention and are swept periodically.
type ContactMessage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// Known social platforms.
var KnownPlatforms = []string{"youtube", "instagram", "twitter", "facebook", "telegram", "discord"}

// SocialLink is an admin-managed link to an external profile.
type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// State is the repository root: everything the application persists as one
// blob. Credential fields hold SHA-256 hashes, never plaintext. The PIN
// guard's failure counter and lockout expiry live in a separate store slot.
type State struct {
	Items       []CatalogItem    `json:"items"`
	Categories  []Category       `json:"categories"`
	Messages    []ContactMessage `json:"messages"`
	Analytics   []int64          `json:"analytics"` // visit timestamps, unix milliseconds
	Wishlist    []string         `json:"wishlist"`
	SocialLinks []SocialLink     `json:"socialLinks"`

	AdminUserHash string `json:"adminUserHash,omitempty"`
	AdminPassHash string `json:"adminPassHash,omitempty"`
	AdminPINHash  string `json:"adminPinHash,omitempty"`
}

// Clone returns a deep copy of the state. Mutations on the copy never touch
// the original's slices.
func (s *State) Clone() *State {
	out := *s
	out.Items = make([]CatalogItem, len(s.Items))
	for i, it := range s.Items {
		out.Items[i] = it
		if it.Tags != nil {
			out.Items[i].Tags = append([]string(nil), it.Tags...)
		}
		if it.Recipe != nil {
			out.Items[i].Recipe = append([]RecipeStep(nil), it.Recipe...)
		}
	}
	out.Categories = append([]Category(nil), s.Categories...)
	out.Messages = append([]ContactMessage(nil), s.Messages...)
	out.Analytics = append([]int64(nil), s.Analytics...)
	out.Wishlist = append([]string(nil), s.Wishlist...)
	out.SocialLinks = append([]SocialLink(nil), s.SocialLinks...)
	return &out
}

// HasCategory reports whether a category with the given ID exists.
func (s *State) HasCategory(id string) bool {
	for _, c := range s.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryName resolves a category ID to its display name. Dangling
// references are tolerated and render as "Unknown".
func (s *State) CategoryName(id string) string {
	for _, c := range s.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown"
}
