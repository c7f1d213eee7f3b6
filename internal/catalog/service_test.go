package catalog

import (
	"errors"
	"os"
	"testing"
	"time"

	"promptvault/internal/apperr"
	"promptvault/internal/models"
	"promptvault/internal/store"
)

// recordingNotifier captures emitted notices and change events.
type recordingNotifier struct {
	notices []string
	changes []string
}

func (n *recordingNotifier) Notify(level, message string) {
	n.notices = append(n.notices, level+": "+message)
}

func (n *recordingNotifier) CatalogChanged(kind, id string) {
	n.changes = append(n.changes, kind)
}

func testKV(t *testing.T) *store.KV {
	t.Helper()
	f, err := os.CreateTemp("", "promptvault-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	kv, err := store.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func testService(t *testing.T) (*Service, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return NewService(testKV(t), n, "https://media.example.com"), n
}

func TestAddItemAssignsIDAndTimestamp(t *testing.T) {
	svc, n := testService(t)

	item := svc.AddItem(models.CatalogItem{Title: "New", CategoryID: "anime"})
	if item.ID == "" {
		t.Error("no ID assigned")
	}
	if item.CreatedAt == 0 {
		t.Error("no timestamp assigned")
	}
	if _, err := svc.GetItem(item.ID); err != nil {
		t.Errorf("GetItem: %v", err)
	}
	if len(n.changes) != 1 || n.changes[0] != "item.created" {
		t.Errorf("changes = %v", n.changes)
	}
}

func TestAddItemKeepsCallerID(t *testing.T) {
	svc, _ := testService(t)
	item := svc.AddItem(models.CatalogItem{ID: "given", Title: "T", CategoryID: "anime", CreatedAt: 7})
	if item.ID != "given" || item.CreatedAt != 7 {
		t.Errorf("item = %+v", item)
	}
}

func TestAddItemResolvesImageURLs(t *testing.T) {
	svc, _ := testService(t)

	item := svc.AddItem(models.CatalogItem{
		Title:      "T",
		CategoryID: "anime",
		ImageURL:   "/uploads/pic.png",
		Recipe:     []models.RecipeStep{{Kind: "base", Label: "b", ImageURL: "step.png"}},
	})
	if item.ImageURL != "https://media.example.com/uploads/pic.png" {
		t.Errorf("image url = %q", item.ImageURL)
	}
	if item.Recipe[0].ImageURL != "https://media.example.com/step.png" {
		t.Errorf("recipe url = %q", item.Recipe[0].ImageURL)
	}
	if item.Recipe[0].ID == "" {
		t.Error("recipe step got no ID")
	}

	absolute := svc.AddItem(models.CatalogItem{Title: "T2", CategoryID: "anime", ImageURL: "https://cdn.example.com/x.png"})
	if absolute.ImageURL != "https://cdn.example.com/x.png" {
		t.Errorf("absolute url rewritten: %q", absolute.ImageURL)
	}
}

func TestDeleteItemMissingIsNoOp(t *testing.T) {
	svc, _ := testService(t)
	before := len(svc.Snapshot().Items)
	svc.DeleteItem("nope")
	if after := len(svc.Snapshot().Items); after != before {
		t.Errorf("items = %d, want %d", after, before)
	}
}

func TestDeleteItemPersists(t *testing.T) {
	kv := testKV(t)
	svc := NewService(kv, nil, "")
	item := svc.AddItem(models.CatalogItem{Title: "gone", CategoryID: "anime"})
	svc.DeleteItem(item.ID)

	// A fresh service over the same store must not see the item.
	svc2 := NewService(kv, nil, "")
	if _, err := svc2.GetItem(item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCategorySlug(t *testing.T) {
	cases := map[string]string{
		"Concept Art":    "concept-art",
		"  Pixel  Art  ": "pixel-art",
		"Anime":          "anime",
	}
	for name, want := range cases {
		if got := CategorySlug(name); got != want {
			t.Errorf("CategorySlug(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestAddCategoryDuplicateRejected(t *testing.T) {
	svc, _ := testService(t)

	cat, err := svc.AddCategory("Pixel Art", "Grid")
	if err != nil {
		t.Fatal(err)
	}
	if cat.ID != "pixel-art" {
		t.Errorf("id = %q", cat.ID)
	}

	if _, err := svc.AddCategory("PIXEL art", ""); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestDeleteCategoryReserved(t *testing.T) {
	svc, _ := testService(t)
	if err := svc.DeleteCategory(models.CategoryAll); !errors.Is(err, apperr.ErrReservedCategory) {
		t.Errorf("err = %v, want ErrReservedCategory", err)
	}
}

func TestDeleteCategoryLeavesItemsDangling(t *testing.T) {
	svc, _ := testService(t)
	item := svc.AddItem(models.CatalogItem{Title: "T", CategoryID: "anime"})

	if err := svc.DeleteCategory("anime"); err != nil {
		t.Fatal(err)
	}
	st := svc.Snapshot()
	if st.HasCategory("anime") {
		t.Error("category still present")
	}
	got, err := svc.GetItem(item.ID)
	if err != nil || got.CategoryID != "anime" {
		t.Errorf("item = %+v, err %v", got, err)
	}
	if name := st.CategoryName("anime"); name != "Unknown" {
		t.Errorf("dangling category renders as %q, want Unknown", name)
	}
}

func TestToggleWishlistRoundTrip(t *testing.T) {
	svc, n := testService(t)

	if added := svc.ToggleWishlist("item-1"); !added {
		t.Error("first toggle should add")
	}
	if added := svc.ToggleWishlist("item-1"); added {
		t.Error("second toggle should remove")
	}
	if len(svc.Snapshot().Wishlist) != 0 {
		t.Errorf("wishlist = %v", svc.Snapshot().Wishlist)
	}

	// Only the add transition produces a notice.
	if len(n.notices) != 1 {
		t.Errorf("notices = %v, want exactly one", n.notices)
	}
}

func TestMessagesNewestFirst(t *testing.T) {
	svc, _ := testService(t)
	svc.AddMessage("a", "first")
	svc.AddMessage("b", "second")

	msgs := svc.Snapshot().Messages
	if len(msgs) != 2 || msgs[0].Message != "second" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestSweepMessagesRetention(t *testing.T) {
	svc, _ := testService(t)
	base := time.Now()
	svc.SetClock(func() time.Time { return base })

	svc.AddMessage("old", "stale")
	svc.SetClock(func() time.Time { return base.Add(23 * time.Hour) })
	svc.AddMessage("new", "fresh")

	// 25h after the first message: only it has expired.
	svc.SetClock(func() time.Time { return base.Add(25 * time.Hour) })
	if removed := svc.SweepMessages(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	msgs := svc.Snapshot().Messages
	if len(msgs) != 1 || msgs[0].Name != "new" {
		t.Errorf("messages = %+v", msgs)
	}

	if removed := svc.SweepMessages(); removed != 0 {
		t.Errorf("second sweep removed %d, want 0", removed)
	}
}

func TestSweepRunsAtLoad(t *testing.T) {
	kv := testKV(t)
	st := models.DefaultState()
	st.Messages = []models.ContactMessage{
		{ID: "stale", Name: "a", Message: "m", Timestamp: time.Now().Add(-25 * time.Hour).UnixMilli()},
		{ID: "fresh", Name: "b", Message: "m", Timestamp: time.Now().UnixMilli()},
	}
	if err := kv.SaveState(st); err != nil {
		t.Fatal(err)
	}

	svc := NewService(kv, nil, "")
	msgs := svc.Snapshot().Messages
	if len(msgs) != 1 || msgs[0].ID != "fresh" {
		t.Errorf("messages after load = %+v", msgs)
	}
}

func TestTrackVisitAndStats(t *testing.T) {
	svc, _ := testService(t)
	svc.TrackVisit()
	svc.TrackVisit()

	stats := svc.Stats()
	if stats.Visits != 2 || stats.VisitsToday != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Items != 3 {
		t.Errorf("items = %d, want seed count 3", stats.Items)
	}
}

func TestUpdatePINValidation(t *testing.T) {
	svc, _ := testService(t)

	for _, pin := range []string{"", "123", "12345", "12a4"} {
		if err := svc.UpdatePIN(pin); !errors.Is(err, apperr.ErrInvalidCredentials) {
			t.Errorf("UpdatePIN(%q) = %v, want ErrInvalidCredentials", pin, err)
		}
	}

	if err := svc.UpdatePIN("0000"); err != nil {
		t.Fatal(err)
	}
	if svc.PINHash() != models.DefaultPINHash {
		t.Errorf("hash of 0000 = %q, want the known default hash", svc.PINHash())
	}
}

func TestUpdateCredentialsStoresHashes(t *testing.T) {
	svc, _ := testService(t)

	if err := svc.UpdateCredentials("admin", "admin123"); err != nil {
		t.Fatal(err)
	}
	if svc.UserHash() != models.DefaultUserHash || svc.PassHash() != models.DefaultPassHash {
		t.Error("stored hashes do not match known values")
	}

	if err := svc.UpdateCredentials("", "pw"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestImportBackupReplacesState(t *testing.T) {
	svc, _ := testService(t)

	if err := svc.ImportBackup([]byte(`{"items": [{"id": "only", "title": "Only", "categoryId": "anime"}]}`)); err != nil {
		t.Fatal(err)
	}
	st := svc.Snapshot()
	if len(st.Items) != 1 || st.Items[0].ID != "only" {
		t.Errorf("items = %+v", st.Items)
	}
	// Fields absent from the backup fall back to defaults.
	if !st.HasCategory(models.CategoryAll) {
		t.Error("categories did not default")
	}
}

func TestImportBackupRejectsInvalid(t *testing.T) {
	svc, _ := testService(t)
	before := len(svc.Snapshot().Items)

	if err := svc.ImportBackup([]byte(`{"nope": true}`)); !errors.Is(err, apperr.ErrInvalidImport) {
		t.Fatalf("err = %v, want ErrInvalidImport", err)
	}
	if after := len(svc.Snapshot().Items); after != before {
		t.Errorf("state mutated by rejected import: %d -> %d", before, after)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	svc, _ := testService(t)
	st := svc.Snapshot()
	st.Items[0].Title = "mutated"

	if svc.Snapshot().Items[0].Title == "mutated" {
		t.Error("snapshot mutation leaked into service state")
	}
}
