// Package testutil provides shared test helpers for setting up state stores
// and catalog services.
package testutil

import (
	"os"
	"testing"

	"promptvault/internal/catalog"
	"promptvault/internal/store"
)

// TestKV creates a temporary SQLite state store that is automatically cleaned up.
func TestKV(t *testing.T) *store.KV {
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

// TestService creates a catalog service over a temporary store with no
// notifier and no media base.
func TestService(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(TestKV(t), nil, "")
}
