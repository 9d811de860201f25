package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"steameagle/internal/catalog"
	"steameagle/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	if store.Path() != cfg.CatalogPath() {
		t.Fatalf("path = %s, want %s", store.Path(), cfg.CatalogPath())
	}
	if _, err := os.Stat(cfg.CatalogPath()); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	store.Close()

	reopened, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestUpsertGamesPreservesSyncState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	added, err := store.UpsertGames(ctx, []catalog.Game{{AppID: 620, Name: "Portal 2"}, {AppID: 440, Name: "TF2"}})
	if err != nil || added != 2 {
		t.Fatalf("UpsertGames = %d, %v", added, err)
	}
	if err := store.RecordImage(ctx, 620, "/img/620.jpg", nil); err != nil {
		t.Fatalf("RecordImage: %v", err)
	}

	added, err = store.UpsertGames(ctx, []catalog.Game{{AppID: 620, Name: "Portal 2 ", PlaytimeMinutes: 90}, {AppID: 10, Name: "Counter-Strike"}})
	if err != nil || added != 1 {
		t.Fatalf("second UpsertGames = %d, %v", added, err)
	}

	game, err := store.Get(ctx, 620)
	if err != nil || game == nil {
		t.Fatalf("Get = %v, %v", game, err)
	}
	if game.Name != "Portal 2" || game.PlaytimeMinutes != 90 || game.ImagePath != "/img/620.jpg" {
		t.Fatalf("unexpected game %+v", game)
	}

	games, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []int64
	for _, g := range games {
		ids = append(ids, g.AppID)
	}
	if !reflect.DeepEqual(ids, []int64{10, 440, 620}) {
		t.Fatalf("List ids = %v", ids)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	game, err := store.Get(context.Background(), 1)
	if err != nil || game != nil {
		t.Fatalf("Get = %v, %v; want nil, nil", game, err)
	}
}

func TestRecordTagsAndFailures(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedGames(t, store,
		catalog.Game{AppID: 1, Name: "One"},
		catalog.Game{AppID: 2, Name: "Two"},
		catalog.Game{AppID: 3, Name: "Three"},
	)

	if err := store.RecordTags(ctx, 1, []string{"Action", "Indie"}, nil); err != nil {
		t.Fatalf("RecordTags: %v", err)
	}
	if err := store.RecordTags(ctx, 2, nil, errors.New("store returned 502")); err != nil {
		t.Fatalf("RecordTags failure: %v", err)
	}
	if err := store.RecordImage(ctx, 2, "", errors.New("no library art")); err != nil {
		t.Fatalf("RecordImage failure: %v", err)
	}
	if err := store.RecordImage(ctx, 3, "", errors.New("timeout")); err != nil {
		t.Fatalf("RecordImage failure: %v", err)
	}

	one, _ := store.Get(ctx, 1)
	if !one.TagsFetched || !reflect.DeepEqual(one.Tags, []string{"Action", "Indie"}) {
		t.Fatalf("unexpected tags %+v", one)
	}

	failures, err := store.Failures(ctx)
	if err != nil {
		t.Fatalf("Failures: %v", err)
	}
	want := []catalog.Failure{
		{AppID: 2, Name: "Two", ImgDownloadFailed: true, TagDownloadFailed: true, ImageError: "no library art", TagError: "store returned 502"},
		{AppID: 3, Name: "Three", ImgDownloadFailed: true, ImageError: "timeout"},
	}
	if !reflect.DeepEqual(failures, want) {
		t.Fatalf("failures = %+v, want %+v", failures, want)
	}

	if err := store.RecordImage(ctx, 3, "/img/3.jpg", nil); err != nil {
		t.Fatalf("RecordImage success: %v", err)
	}
	failures, _ = store.Failures(ctx)
	if len(failures) != 1 || failures[0].AppID != 2 {
		t.Fatalf("success should clear failure, got %+v", failures)
	}
}

func TestRecordUnknownGame(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	err := store.RecordImage(context.Background(), 404, "/img/404.jpg", nil)
	if !errors.Is(err, catalog.ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestPendingImportAndStats(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedGames(t, store,
		catalog.Game{AppID: 1, Name: "One"},
		catalog.Game{AppID: 2, Name: "Two"},
	)
	_ = store.RecordImage(ctx, 1, "/img/1.jpg", nil)
	_ = store.RecordTags(ctx, 1, []string{}, nil)
	_ = store.RecordTags(ctx, 2, nil, errors.New("boom"))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := store.MarkImported(ctx, []int64{1}, at); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	pending, err := store.PendingImport(ctx)
	if err != nil {
		t.Fatalf("PendingImport: %v", err)
	}
	if len(pending) != 1 || pending[0].AppID != 2 {
		t.Fatalf("pending = %+v", pending)
	}

	one, _ := store.Get(ctx, 1)
	if one.ImportedAt == nil || !one.ImportedAt.Equal(at) {
		t.Fatalf("imported_at = %v, want %v", one.ImportedAt, at)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := catalog.Stats{Total: 2, WithImage: 1, WithTags: 1, TagFailures: 1, Imported: 1, Pending: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestFailureReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "failed_data_download.json")
	failures := []catalog.Failure{{AppID: 7, Name: "Seven", ImgDownloadFailed: true}}
	if err := catalog.WriteFailureReport(path, failures); err != nil {
		t.Fatalf("WriteFailureReport: %v", err)
	}
	got, err := catalog.ReadFailureReport(path)
	if err != nil {
		t.Fatalf("ReadFailureReport: %v", err)
	}
	if !reflect.DeepEqual(got, failures) {
		t.Fatalf("report = %+v", got)
	}

	if err := catalog.WriteFailureReport(path, nil); err != nil {
		t.Fatalf("WriteFailureReport empty: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]\n" {
		t.Fatalf("empty report = %q", data)
	}
}

func TestConcurrentRecordsDoNotHitBusy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	const games = 300
	seed := make([]catalog.Game, 0, games)
	for i := 1; i <= games; i++ {
		seed = append(seed, catalog.Game{AppID: int64(i), Name: fmt.Sprintf("Game %d", i)})
	}
	testsupport.SeedGames(t, store, seed...)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := int64(w + 1); id <= games; id += workers {
				if err := store.RecordImage(ctx, id, fmt.Sprintf("/img/%d.jpg", id), nil); err != nil {
					errs <- err
					return
				}
				if err := store.RecordTags(ctx, id, []string{"Action"}, nil); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent record: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.WithImage != games || stats.WithTags != games {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
