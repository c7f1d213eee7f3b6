// Package catalog owns the in-memory repository state and the mutation API.
// Every mutation validates, updates state under the service mutex, persists
// the whole blob, and publishes a transient notification. Persistence
// failures are logged, never surfaced — the in-memory state stays the source
// of truth for the running session.
package catalog

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptvault/internal/apperr"
	"promptvault/internal/checksum"
	"promptvault/internal/models"
	"promptvault/internal/query"
	"promptvault/internal/store"
)

// Messages older than this are dropped by the retention sweep.
const MessageRetention = 24 * time.Hour

// Notifier receives the transient user-facing notices and catalog change
// events the mutations emit. The SSE broker implements it.
type Notifier interface {
	Notify(level, message string)
	CatalogChanged(kind, id string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string)         {}
func (noopNotifier) CatalogChanged(string, string) {}

// Service coordinates state, persistence, and notifications.
type Service struct {
	mu        sync.Mutex
	st        *models.State
	kv        *store.KV
	notify    Notifier
	mediaBase string
	now       func() time.Time
}

// NewService loads state from kv (running one retention sweep immediately)
// and wires the notifier. notifier may be nil; mediaBase is the external
// media host bare image identifiers resolve against.
func NewService(kv *store.KV, notifier Notifier, mediaBase string) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	s := &Service{
		st:        kv.LoadState(),
		kv:        kv,
		notify:    notifier,
		mediaBase: strings.TrimRight(mediaBase, "/"),
		now:       time.Now,
	}
	s.SweepMessages()
	return s
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Snapshot returns a deep copy of the current state for read paths.
func (s *Service) Snapshot() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Query runs the filter engine over the current items.
func (s *Service) Query(activeCategory, search string) []models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := query.Filter(s.st.Items, activeCategory, search, s.st.Wishlist)
	out := make([]models.CatalogItem, len(items))
	copy(out, items)
	return out
}

// GetItem returns a single item by ID.
func (s *Service) GetItem(id string) (models.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.st.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.CatalogItem{}, apperr.ErrNotFound
}

// persistLocked writes the full state. Caller holds the mutex.
func (s *Service) persistLocked() {
	if err := s.kv.SaveState(s.st); err != nil {
		slog.Error("state save failed", slog.String("error", err.Error()))
	}
}

// AddItem appends a catalog item, assigning an identifier when the caller
// supplied none and resolving its image reference. Duplicate titles are fine.
func (s *Service) AddItem(item models.CatalogItem) models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = s.now().UnixMilli()
	}
	item.ImageURL = s.resolveImageURL(item.ImageURL)
	for i := range item.Recipe {
		if item.Recipe[i].ID == "" {
			item.Recipe[i].ID = newID()
		}
		item.Recipe[i].ImageURL = s.resolveImageURL(item.Recipe[i].ImageURL)
	}

	s.st.Items = append(s.st.Items, item)
	s.persistLocked()
	s.notify.Notify("success", "Prompt saved to Library!")
	s.notify.CatalogChanged("item.created", item.ID)
	return item
}

// DeleteItem removes an item by ID. Missing IDs are a silent no-op.
func (s *Service) DeleteItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.Items[:0]
	for _, it := range s.st.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.st.Items = kept
	s.persistLocked()
	s.notify.Notify("info", "Prompt deleted successfully")
	s.notify.CatalogChanged("item.deleted", id)
}

// CategorySlug derives a category ID from its display name: lowercased,
// whitespace runs collapsed to single hyphens.
func CategorySlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// AddCategory creates a category whose ID is derived from name. A category
// with the same ID already existing is rejected with no mutation.
func (s *Service) AddCategory(name, icon string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := models.Category{ID: CategorySlug(name), Name: name, Icon: icon}
	if s.st.HasCategory(cat.ID) {
		s.notify.Notify("error", "Category already exists!")
		return models.Category{}, apperr.ErrAlreadyExists
	}
	s.st.Categories = append(s.st.Categories, cat)
	s.persistLocked()
	s.notify.Notify("success", "New Category added!")
	s.notify.CatalogChanged("category.created", cat.ID)
	return cat, nil
}

// DeleteCategory removes a category. The reserved "all" category can never be
// deleted. Items referencing the deleted category keep their dangling ID and
// render as "Unknown"; callers whose active filter pointed at the deleted
// category must reset it to "all".
func (s *Service) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == models.CategoryAll {
		s.notify.Notify("error", "Cannot delete the 'All' category.")
		return apperr.ErrReservedCategory
	}
	kept := s.st.Categories[:0]
	for _, c := range s.st.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.st.Categories = kept
	s.persistLocked()
	s.notify.Notify("info", "Category removed.")
	s.notify.CatalogChanged("category.deleted", id)
	return nil
}

// ToggleWishlist flips an item's wishlist membership and reports the new
// membership. Only the add transition notifies.
func (s *Service) ToggleWishlist(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, wid := range s.st.Wishlist {
		if wid == id {
			s.st.Wishlist = append(s.st.Wishlist[:i], s.st.Wishlist[i+1:]...)
			s.persistLocked()
			return false
		}
	}
	s.st.Wishlist = append(s.st.Wishlist, id)
	s.persistLocked()
	s.notify.Notify("success", "Added to Collection")
	return true
}

// AddMessage records a public contact-form submission, newest first.
func (s *Service) AddMessage(name, message string) models.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.ContactMessage{
		ID:        newID(),
		Name:      name,
		Message:   message,
		Timestamp: s.now().UnixMilli(),
	}
	s.st.Messages = append([]models.ContactMessage{msg}, s.st.Messages...)
	s.persistLocked()
	return msg
}

// DeleteMessage removes a single message. Missing IDs are a no-op.
func (s *Service) DeleteMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.Messages[:0]
	for _, m := range s.st.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.st.Messages = kept
	s.persistLocked()
}

// ClearMessages empties the inbox.
func (s *Service) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Messages = []models.ContactMessage{}
	s.persistLocked()
	s.notify.Notify("success", "Inbox cleared.")
}

// SweepMessages drops messages older than MessageRetention. Idempotent; runs
// at load and on the hourly ticker. Returns the number removed.
func (s *Service) SweepMessages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-MessageRetention).UnixMilli()
	kept := s.st.Messages[:0]
	for _, m := range s.st.Messages {
		if m.Timestamp > cutoff {
			kept = append(kept, m)
		}
	}
	removed := len(s.st.Messages) - len(kept)
	if removed > 0 {
		s.st.Messages = kept
		s.persistLocked()
	}
	return removed
}

// AddSocialLink stores an admin-managed social profile link.
func (s *Service) AddSocialLink(platform, url string) models.SocialLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := models.SocialLink{ID: newID(), Platform: platform, URL: url}
	s.st.SocialLinks = append(s.st.SocialLinks, link)
	s.persistLocked()
	s.notify.Notify("success", "Social link added!")
	return link
}

// DeleteSocialLink removes a social link by ID.
func (s *Service) DeleteSocialLink(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.st.SocialLinks[:0]
	for _, l := range s.st.SocialLinks {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.st.SocialLinks = kept
	s.persistLocked()
	s.notify.Notify("info", "Social link removed.")
}

// TrackVisit appends a visit timestamp to the analytics log.
func (s *Service) TrackVisit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Analytics = append(s.st.Analytics, s.now().UnixMilli())
	s.persistLocked()
}

// Stats summarizes the repository for the admin dashboard.
type Stats struct {
	Items       int `json:"items"`
	Categories  int `json:"categories"`
	Messages    int `json:"messages"`
	Visits      int `json:"visits"`
	VisitsToday int `json:"visitsToday"`
}

// Stats computes dashboard counters from the current state.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()
	today := 0
	for _, ts := range s.st.Analytics {
		if ts >= dayStart {
			today++
		}
	}
	return Stats{
		Items:       len(s.st.Items),
		Categories:  len(s.st.Categories),
		Messages:    len(s.st.Messages),
		Visits:      len(s.st.Analytics),
		VisitsToday: today,
	}
}

// UpdatePIN hashes and stores a new admin PIN. Plaintext is never persisted.
func (s *Service) UpdatePIN(pin string) error {
	if len(pin) != 4 {
		return apperr.ErrInvalidCredentials
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return apperr.ErrInvalidCredentials
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.AdminPINHash = checksum.SumString(pin)
	s.persistLocked()
	s.notify.Notify("success", "Security PIN updated!")
	return nil
}

// UpdateCredentials hashes and stores new local admin credentials.
func (s *Service) UpdateCredentials(username, password string) error {
	if username == "" || password == "" {
		return apperr.ErrInvalidCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.AdminUserHash = checksum.SumString(username)
	s.st.AdminPassHash = checksum.SumString(password)
	s.persistLocked()
	s.notify.Notify("success", "Credentials updated!")
	return nil
}

// PINHash returns the stored PIN hash. Fed to the guard.
func (s *Service) PINHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.AdminPINHash
}

// UserHash returns the stored admin username hash.
func (s *Service) UserHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.AdminUserHash
}

// PassHash returns the stored admin password hash.
func (s *Service) PassHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.AdminPassHash
}

// ReplaceState swaps in an imported state wholesale and persists it.
func (s *Service) ReplaceState(st *models.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = st
	s.persistLocked()
	s.notify.Notify("success", "Data imported successfully!")
	s.notify.CatalogChanged("state.imported", "")
}

// ImportBackup parses backup data and, only when valid, replaces the state.
func (s *Service) ImportBackup(data []byte) error {
	st, err := store.Import(data)
	if err != nil {
		s.notify.Notify("error", "Import failed: unrecognized backup file.")
		return err
	}
	s.ReplaceState(st)
	return nil
}

// newID returns a practically unique identifier: a random UUID, or a
// timestamp-plus-random-suffix when the random source is unavailable.
func newID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + fmt.Sprintf("-%06x", rand.Intn(1<<24))
}
