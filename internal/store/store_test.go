package store

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"promptvault/internal/apperr"
	"promptvault/internal/guard"
	"promptvault/internal/models"
)

func testKV(t *testing.T) *KV {
	t.Helper()
	f, err := os.CreateTemp("", "promptvault-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	kv, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestGetPutDelete(t *testing.T) {
	kv := testKV(t)

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("Get missing = ok %v, err %v", ok, err)
	}
	if err := kv.Put("k", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put("k", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	val, ok, err := kv.Get("k")
	if err != nil || !ok || string(val) != "v2" {
		t.Fatalf("Get = %q, ok %v, err %v", val, ok, err)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get("k"); ok {
		t.Error("key still present after delete")
	}
	if err := kv.Delete("k"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestLoadStateEmptyStoreYieldsDefaults(t *testing.T) {
	kv := testKV(t)
	st := kv.LoadState()

	if len(st.Items) != 3 {
		t.Errorf("seed items = %d, want 3", len(st.Items))
	}
	if !st.HasCategory(models.CategoryAll) || !st.HasCategory(models.CategoryThumbnail) {
		t.Error("default categories missing reserved entries")
	}
	if st.AdminPINHash != models.DefaultPINHash {
		t.Errorf("pin hash = %q, want default", st.AdminPINHash)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := testKV(t)

	st := models.DefaultState()
	st.Items = append(st.Items, models.CatalogItem{ID: "extra", Title: "Extra", CategoryID: "anime"})
	st.Wishlist = []string{"extra"}
	st.AdminPINHash = "custom-hash"
	if err := kv.SaveState(st); err != nil {
		t.Fatal(err)
	}

	got := kv.LoadState()
	if len(got.Items) != len(st.Items) {
		t.Errorf("items = %d, want %d", len(got.Items), len(st.Items))
	}
	if len(got.Wishlist) != 1 || got.Wishlist[0] != "extra" {
		t.Errorf("wishlist = %v", got.Wishlist)
	}
	if got.AdminPINHash != "custom-hash" {
		t.Errorf("pin hash = %q", got.AdminPINHash)
	}
}

func TestReconcileMissingFieldsFallBack(t *testing.T) {
	// A blob that only carries items: every other field defaults, including
	// credential hashes.
	st := ReconcileState([]byte(`{"items": []}`))
	if len(st.Items) != 0 {
		t.Errorf("items = %d, want 0", len(st.Items))
	}
	if len(st.Categories) == 0 {
		t.Error("categories did not default")
	}
	if st.AdminUserHash != models.DefaultUserHash {
		t.Error("user hash did not default")
	}
	if st.Wishlist == nil {
		t.Error("wishlist did not default")
	}
}

func TestReconcilePresentButEmptyFieldsKept(t *testing.T) {
	st := ReconcileState([]byte(`{"items": [], "categories": []}`))
	if len(st.Categories) != 0 {
		t.Errorf("explicit empty categories = %d entries, want 0", len(st.Categories))
	}
}

func TestReconcileMalformedBlobYieldsDefaults(t *testing.T) {
	st := ReconcileState([]byte(`{not json`))
	if len(st.Items) != 3 || st.AdminPINHash != models.DefaultPINHash {
		t.Error("malformed blob did not yield full defaults")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	st := models.DefaultState()
	st.Items = append(st.Items, models.CatalogItem{ID: "x", Title: "Exported", CategoryID: "anime", Tags: []string{"a"}})
	st.Messages = []models.ContactMessage{{ID: "m", Name: "n", Message: "hello", Timestamp: 42}}

	var buf bytes.Buffer
	if err := Export(&buf, st); err != nil {
		t.Fatal(err)
	}

	got, err := Import(buf.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(got.Items) != len(st.Items) {
		t.Errorf("items = %d, want %d", len(got.Items), len(st.Items))
	}
	if len(got.Messages) != 1 || got.Messages[0].Message != "hello" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestImportRejectsUnrecognizedPayloads(t *testing.T) {
	cases := []string{
		`{not json`,
		`{"foo": "bar"}`,
		`[]`,
		`null`,
	}
	for _, payload := range cases {
		if _, err := Import([]byte(payload)); !errors.Is(err, apperr.ErrInvalidImport) {
			t.Errorf("Import(%q) err = %v, want ErrInvalidImport", payload, err)
		}
	}
}

func TestExportFilenameIsDated(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename(now); got != "promptvault-backup-2025-03-09.json" {
		t.Errorf("filename = %q", got)
	}
}

func TestExportToDir(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportToDir(dir, models.DefaultState(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Import(data); err != nil {
		t.Errorf("exported file does not import back: %v", err)
	}
}

func TestGuardRecordRoundTrip(t *testing.T) {
	kv := testKV(t)

	rec, err := kv.LoadGuardRecord()
	if err != nil || rec.FailedAttempts != 0 || rec.LockedUntil != 0 {
		t.Fatalf("empty record = %+v, err %v", rec, err)
	}

	want := guard.Record{FailedAttempts: 3, LockedUntil: 1234567890}
	if err := kv.SaveGuardRecord(want); err != nil {
		t.Fatal(err)
	}
	rec, err = kv.LoadGuardRecord()
	if err != nil || rec != want {
		t.Fatalf("record = %+v, err %v, want %+v", rec, err, want)
	}

	if err := kv.ClearGuardRecord(); err != nil {
		t.Fatal(err)
	}
	rec, _ = kv.LoadGuardRecord()
	if rec != (guard.Record{}) {
		t.Errorf("record after clear = %+v", rec)
	}
}

func TestGuardRecordIndependentOfState(t *testing.T) {
	kv := testKV(t)
	_ = kv.SaveGuardRecord(guard.Record{FailedAttempts: 2, LockedUntil: 99})

	// Overwriting the state slot must not touch the guard slot.
	if err := kv.SaveState(models.DefaultState()); err != nil {
		t.Fatal(err)
	}
	rec, _ := kv.LoadGuardRecord()
	if rec.FailedAttempts != 2 {
		t.Errorf("guard record clobbered by state save: %+v", rec)
	}
}
