package steam_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"steameagle/internal/config"
	"steameagle/internal/services"
	"steameagle/internal/services/steam"
	"steameagle/internal/testsupport"
)

func newClient(t *testing.T, fake *testsupport.FakeSteam) *steam.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithSteamServer(fake))
	client, err := steam.New(cfg.Steam)
	if err != nil {
		t.Fatalf("steam.New: %v", err)
	}
	return client
}

func TestGetOwnedGames(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithOwnedGames(
		steam.Game{AppID: 620, Name: "Portal 2", PlaytimeMinutes: 1200},
		steam.Game{AppID: 440, Name: "Team Fortress 2"},
	))
	client := newClient(t, fake)

	games, err := client.GetOwnedGames(context.Background(), 76561198092541763)
	if err != nil {
		t.Fatalf("GetOwnedGames: %v", err)
	}
	if len(games) != 2 || games[0].AppID != 620 || games[0].Name != "Portal 2" || games[0].PlaytimeMinutes != 1200 {
		t.Fatalf("unexpected games: %+v", games)
	}
}

func TestGetOwnedGamesEmptyProfile(t *testing.T) {
	fake := testsupport.NewFakeSteam(t)
	client := newClient(t, fake)

	games, err := client.GetOwnedGames(context.Background(), 76561198092541763)
	if err != nil {
		t.Fatalf("GetOwnedGames: %v", err)
	}
	if games == nil || len(games) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", games)
	}
}

func TestGetOwnedGamesErrors(t *testing.T) {
	tests := []struct {
		name   string
		opts   []testsupport.FakeSteamOption
		marker error
	}{
		{"rejected key", []testsupport.FakeSteamOption{testsupport.WithAPIKey("other")}, services.ErrConfiguration},
		{"server error", []testsupport.FakeSteamOption{testsupport.WithOwnedGamesStatus(http.StatusInternalServerError)}, services.ErrExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testsupport.NewFakeSteam(t, tt.opts...)
			client := newClient(t, fake)
			_, err := client.GetOwnedGames(context.Background(), 76561198092541763)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestGetOwnedGamesRequiresKey(t *testing.T) {
	fake := testsupport.NewFakeSteam(t)
	cfg := testsupport.NewConfig(t, testsupport.WithSteamServer(fake))
	cfg.Steam.APIKey = ""
	client, err := steam.New(cfg.Steam)
	if err != nil {
		t.Fatalf("steam.New: %v", err)
	}
	if _, err := client.GetOwnedGames(context.Background(), 1); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if fake.Hits("owned") != 0 {
		t.Fatal("request should not be sent without a key")
	}
}

func TestURLs(t *testing.T) {
	client, err := steam.New(config.Default().Steam)
	if err != nil {
		t.Fatalf("steam.New: %v", err)
	}
	if got := client.ImageURL(620); got != "https://cdn.cloudflare.steamstatic.com/steam/apps/620/library_600x900.jpg" {
		t.Fatalf("ImageURL = %s", got)
	}
	if got := client.StorePageURL(620); got != "https://store.steampowered.com/app/620" {
		t.Fatalf("StorePageURL = %s", got)
	}
}

func TestDownloadImage(t *testing.T) {
	fake := testsupport.NewFakeSteam(t)
	client := newClient(t, fake)
	dest := filepath.Join(t.TempDir(), "img", "620.jpg")

	written, err := client.DownloadImage(context.Background(), 620, dest, false)
	if err != nil || !written {
		t.Fatalf("DownloadImage = %v, %v", written, err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if !reflect.DeepEqual(data, testsupport.FakeJPEG) {
		t.Fatalf("unexpected image bytes %v", data)
	}

	written, err = client.DownloadImage(context.Background(), 620, dest, false)
	if err != nil || written {
		t.Fatalf("second download should be skipped, got %v, %v", written, err)
	}
	if fake.Hits("image") != 1 {
		t.Fatalf("expected one cdn hit, got %d", fake.Hits("image"))
	}

	written, err = client.DownloadImage(context.Background(), 620, dest, true)
	if err != nil || !written {
		t.Fatalf("overwrite download = %v, %v", written, err)
	}
}

func TestDownloadImageNotFound(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithMissingImage(999))
	client := newClient(t, fake)
	dir := t.TempDir()

	_, err := client.DownloadImage(context.Background(), 999, filepath.Join(dir, "999.jpg"), false)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("failed download should leave no files, found %d", len(entries))
	}
}

func TestTags(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithStoreTags(620, "Puzzle", "Co-op", "Sci-fi & Space"))
	client := newClient(t, fake)

	tags, err := client.Tags(context.Background(), 620, "tchinese")
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []string{"Puzzle", "Co-op", "Sci-fi & Space"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags = %q, want %q", tags, want)
	}
	if langs := fake.Languages(); len(langs) != 1 || langs[0] != "tchinese" {
		t.Fatalf("unexpected languages %v", langs)
	}
}

func TestTagsStoreFailure(t *testing.T) {
	fake := testsupport.NewFakeSteam(t, testsupport.WithStoreStatus(10, http.StatusBadGateway))
	client := newClient(t, fake)

	if _, err := client.Tags(context.Background(), 10, "english"); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestParseTags(t *testing.T) {
	page := `<html><body>
<a class="app_tag" href="#"> Action </a>
<a class="btn app_tag extra"><span>Indie</span></a>
<a class="app_tags_other">Ignored</a>
<div class="app_tag">Not a link</div>
<a class="app_tag">   </a>
<a class="app_tag">indie</a>
<a class="app_tag">Story
    Rich</a>
</body></html>`
	tags, err := steam.ParseTags(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseTags: %v", err)
	}
	want := []string{"Action", "Indie", "Story Rich"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags = %q, want %q", tags, want)
	}
}
