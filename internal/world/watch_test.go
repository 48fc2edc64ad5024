package world

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchLevel_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	if err := os.WriteFile(path, []byte("spawns: [{x: 0, y: 2, z: 0}]\n"), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}

	w, err := WatchLevel(path)
	if err != nil {
		t.Fatalf("WatchLevel() error = %v", err)
	}
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	content := "pillars: [{x: 9, z: 9}]\nspawns: [{x: 1, y: 2, z: 1}]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("rewrite level: %v", err)
	}

	select {
	case level := <-w.Levels:
		if len(level.Pillars) != 1 || level.Pillars[0].X != 9 {
			t.Fatalf("reloaded pillars = %+v", level.Pillars)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for level reload")
	}
}

func TestLevelWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	w, err := WatchLevel(path)
	if err != nil {
		t.Fatalf("WatchLevel() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
