package testsupport

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"steameagle/internal/services/steam"
)

// FakeSteam serves the Steam Web API, CDN and store endpoints from memory.
type FakeSteam struct {
	server *httptest.Server

	mu            sync.Mutex
	apiKey        string
	ownedStatus   int
	games         []steam.Game
	tags          map[int64][]string
	missingImages map[int64]bool
	tagStatus     map[int64]int
	hits          map[string]int
	languages     []string
}

// FakeSteamOption customizes a FakeSteam.
type FakeSteamOption func(*FakeSteam)

// WithOwnedGames sets the owned games list returned by the API.
func WithOwnedGames(games ...steam.Game) FakeSteamOption {
	return func(f *FakeSteam) { f.games = append([]steam.Game(nil), games...) }
}

// WithStoreTags sets the tags rendered on the store page of appID.
func WithStoreTags(appID int64, tags ...string) FakeSteamOption {
	return func(f *FakeSteam) { f.tags[appID] = tags }
}

// WithMissingImage makes the CDN return 404 for appID.
func WithMissingImage(appID int64) FakeSteamOption {
	return func(f *FakeSteam) { f.missingImages[appID] = true }
}

// WithStoreStatus makes the store page for appID answer with status.
func WithStoreStatus(appID int64, status int) FakeSteamOption {
	return func(f *FakeSteam) { f.tagStatus[appID] = status }
}

// WithOwnedGamesStatus forces the owned games endpoint to answer with status.
func WithOwnedGamesStatus(status int) FakeSteamOption {
	return func(f *FakeSteam) { f.ownedStatus = status }
}

// WithAPIKey sets the API key the fake expects. Defaults to "test-key".
func WithAPIKey(key string) FakeSteamOption {
	return func(f *FakeSteam) { f.apiKey = key }
}

// NewFakeSteam starts a fake Steam server closed at test cleanup.
func NewFakeSteam(t testing.TB, opts ...FakeSteamOption) *FakeSteam {
	t.Helper()

	f := &FakeSteam{
		apiKey:        "test-key",
		tags:          map[int64][]string{},
		missingImages: map[int64]bool{},
		tagStatus:     map[int64]int{},
		hits:          map[string]int{},
	}
	for _, opt := range opts {
		opt(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /IPlayerService/GetOwnedGames/v0001/", f.handleOwnedGames)
	mux.HandleFunc("GET /steam/apps/{id}/library_600x900.jpg", f.handleImage)
	mux.HandleFunc("GET /app/{id}", f.handleStorePage)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeSteam) URL() string { return f.server.URL }

// Hits returns how many requests reached the named endpoint
// ("owned", "image", "store").
func (f *FakeSteam) Hits(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[endpoint]
}

// Languages returns the l= values seen by the store endpoint.
func (f *FakeSteam) Languages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.languages...)
}

func (f *FakeSteam) handleOwnedGames(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits["owned"]++
	status := f.ownedStatus
	key := f.apiKey
	games := append([]steam.Game(nil), f.games...)
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "forced failure", status)
		return
	}
	q := r.URL.Query()
	if q.Get("key") != key {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if q.Get("include_appinfo") != "1" || q.Get("format") != "json" || q.Get("steamid") == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	payload := map[string]any{
		"response": map[string]any{
			"game_count": len(games),
			"games":      games,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (f *FakeSteam) handleImage(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	f.hits["image"]++
	missing := f.missingImages[appID]
	f.mu.Unlock()

	if missing {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(FakeJPEG)
}

func (f *FakeSteam) handleStorePage(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	f.mu.Lock()
	f.hits["store"]++
	f.languages = append(f.languages, r.URL.Query().Get("l"))
	status := f.tagStatus[appID]
	tags := f.tags[appID]
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "forced failure", status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(StorePageHTML(tags...)))
}

// StorePageHTML renders a store page fragment carrying tags the way the Steam
// store marks them up.
func StorePageHTML(tags ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Store</title></head><body>")
	b.WriteString(`<div class="glance_tags popular_tags" data-appid="1">`)
	for _, tag := range tags {
		fmt.Fprintf(&b, "<a href=\"https://store.steampowered.com/tags/en/%s/\" class=\"app_tag\" style=\"display: none;\">\n\t\t\t\t\t\t%s\t\t\t\t\t\t</a>",
			html.EscapeString(tag), html.EscapeString(tag))
	}
	b.WriteString(`<div class="app_tag add_button">+</div></div></body></html>`)
	return b.String()
}
