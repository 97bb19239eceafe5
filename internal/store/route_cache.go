package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fotoroute/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNoCachedRoute is returned by LoadRoute when nothing was cached for a source.
var ErrNoCachedRoute = errors.New("no cached route")

// CachedRoute is a route together with the time it was fetched.
type CachedRoute struct {
	Route     model.Route
	FetchedAt time.Time
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateRouteCache(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateRouteCache(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS route_cache (
			source TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			fetched_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate route cache: %w", err)
		}
	}
	return nil
}

// SaveRoute replaces the cached route for source.
func (s Store) SaveRoute(ctx context.Context, source string, r model.Route, fetchedAt time.Time) error {
	if !s.enabled() {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO route_cache(source, json, fetched_at_unixms) VALUES(?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET json=excluded.json, fetched_at_unixms=excluded.fetched_at_unixms
	`, source, string(b), fetchedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save route cache: %w", err)
	}
	return nil
}

// LoadRoute returns the cached route for source or ErrNoCachedRoute.
func (s Store) LoadRoute(ctx context.Context, source string) (*CachedRoute, error) {
	if !s.enabled() {
		return nil, ErrNoCachedRoute
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var (
		js string
		ms int64
	)
	err = db.QueryRowContext(ctx, `SELECT json, fetched_at_unixms FROM route_cache WHERE source = ?`, source).Scan(&js, &ms)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCachedRoute
		}
		return nil, fmt.Errorf("load route cache: %w", err)
	}
	var out CachedRoute
	if err := json.Unmarshal([]byte(js), &out.Route); err != nil {
		return nil, fmt.Errorf("decode cached route: %w", err)
	}
	out.FetchedAt = time.UnixMilli(ms).UTC()
	return &out, nil
}
