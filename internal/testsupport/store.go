// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"moviedb/internal/catalog"
	"moviedb/internal/config"
	"moviedb/internal/title"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.OMDb.APIKey = "test"
	return &cfg
}

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// InceptionRecord returns the standard fixture used across storage tests.
func InceptionRecord() *title.Record {
	return &title.Record{
		Title:      "Inception",
		Year:       "2010",
		Directors:  []string{"Christopher Nolan"},
		Writers:    []string{"Christopher Nolan"},
		Actors:     []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
		Genres:     []string{"Action", "Adventure", "Sci-Fi"},
		Countries:  []string{"USA", "UK"},
		Poster:     "https://example.com/inception.jpg",
		Runtime:    "148 min",
		Plot:       "A thief who steals corporate secrets through dream-sharing technology.",
		Awards:     "Won 4 Oscars.",
		IMDbID:     "tt1375666",
		IMDbRating: "8.8",
		Type:       "movie",
	}
}

// MustCreate writes a record with the given rating and fails the test on
// error.
func MustCreate(t testing.TB, store *catalog.Store, rec *title.Record, rating *int) {
	t.Helper()

	if err := store.CreateTitle(context.Background(), rec, rating); err != nil {
		t.Fatalf("store.CreateTitle(%s): %v", rec.IMDbID, err)
	}
}

// IntPtr returns a pointer to v. Ratings are passed by pointer so tests can
// exercise the unrated state with nil.
func IntPtr(v int) *int {
	return &v
}
