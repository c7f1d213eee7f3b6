package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"promptvault/internal/apperr"
	"promptvault/internal/models"
)

// ExportFilename returns the dated backup filename for the given time.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("promptvault-backup-%s.json", now.Format("2006-01-02"))
}

// Export writes the state as pretty-printed JSON to w. The output mirrors the
// persisted blob exactly, so Import(Export(state)) round-trips.
func Export(w io.Writer, st *models.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("store: export: %w", err)
	}
	return nil
}

// ExportToDir writes a dated backup file into dir and returns its path.
func ExportToDir(dir string, st *models.State, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: export dir: %w", err)
	}
	path := filepath.Join(dir, ExportFilename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store: create backup: %w", err)
	}
	defer f.Close()
	if err := Export(f, st); err != nil {
		return "", err
	}
	return path, nil
}

// Import parses an exported backup. The payload is accepted only when it
// carries a recognizable item list; anything else is ErrInvalidImport and the
// caller's existing state stays untouched. Missing optional fields fall back
// to defaults exactly as on load.
func Import(data []byte) (*models.State, error) {
	var probe struct {
		Items *[]models.CatalogItem `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, apperr.ErrInvalidImport
	}
	if probe.Items == nil {
		return nil, apperr.ErrInvalidImport
	}
	return ReconcileState(data), nil
}
