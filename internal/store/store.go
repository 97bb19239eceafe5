// Package store persists small pieces of viewer state on disk: the viewer
// state file and a SQLite cache of the last fetched route per source.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	viewerStateFileName = "viewer_state.json"
	sqliteFileName      = "cache.sqlite"
)

type Store struct {
	Dir string
}

// DefaultDir returns the per-user state directory, honoring XDG_STATE_HOME.
func DefaultDir() string {
	if v := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); v != "" {
		return filepath.Join(v, "fotoroute")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "state", "fotoroute")
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) enabled() bool {
	return strings.TrimSpace(s.Dir) != ""
}

func (s Store) viewerStatePath() string {
	return filepath.Join(s.Dir, viewerStateFileName)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// writeFileAtomic writes via a temp file and rename so readers never see a
// partial file.
func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
