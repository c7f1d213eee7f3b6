// Package restore watches a drop directory for backup files and applies them
// through the import path, so a deployment can be restored by copying a
// backup JSON into place.
package restore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Importer applies validated backup data. catalog.Service satisfies it.
type Importer interface {
	ImportBackup(data []byte) error
}

const appliedSuffix = ".applied"

// Watch starts an fsnotify watcher on dir (created if missing) and processes
// dropped .json files until ctx is cancelled. File events are debounced into
// a directory scan because a copy-in produces a burst of write events.
// Successfully applied files are renamed with an ".applied" suffix so a scan
// never re-imports them; invalid files are logged and left alone.
func Watch(ctx context.Context, dir string, imp Importer, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("restore watcher: started", slog.String("dir", dir))

	// Pick up anything already waiting.
	scan(dir, imp, logger)

	var scanTimer *time.Timer
	var scanCh <-chan time.Time

	scheduleScan := func() {
		if scanTimer == nil {
			scanTimer = time.NewTimer(500 * time.Millisecond)
			scanCh = scanTimer.C
		} else {
			scanTimer.Reset(500 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if scanTimer != nil {
				scanTimer.Stop()
			}
			logger.Info("restore watcher: stopped")
			return nil

		case <-scanCh:
			scan(dir, imp, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			scheduleScan()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("restore watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// scan applies every pending .json backup in dir. Idempotent: applied files
// are renamed out of the match set, failed files stay and are retried on the
// next scan only if they change.
func scan(dir string, imp Importer, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("restore watcher: scan failed", slog.String("error", err.Error()))
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, appliedSuffix) {
			continue
		}
		path := filepath.Join(dir, name)
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("restore watcher: read failed", slog.String("path", path), slog.String("error", readErr.Error()))
			continue
		}
		if impErr := imp.ImportBackup(data); impErr != nil {
			logger.Warn("restore watcher: import rejected", slog.String("path", path), slog.String("error", impErr.Error()))
			continue
		}
		if renErr := os.Rename(path, path+appliedSuffix); renErr != nil {
			logger.Warn("restore watcher: mark applied failed", slog.String("path", path), slog.String("error", renErr.Error()))
		}
		logger.Info("restore watcher: backup applied", slog.String("path", path))
	}
}
