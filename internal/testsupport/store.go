package testsupport

import (
	"context"
	"testing"

	"steameagle/internal/catalog"
	"steameagle/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedGames inserts games into store, failing the test on error.
func SeedGames(t testing.TB, store *catalog.Store, games ...catalog.Game) {
	t.Helper()

	if _, err := store.UpsertGames(context.Background(), games); err != nil {
		t.Fatalf("store.UpsertGames: %v", err)
	}
}
