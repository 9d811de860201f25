package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"steameagle/internal/config"
	"steameagle/internal/services"
)

const bodySnippetLimit = 512

// HTTPDoer describes the HTTP client used by the Steam client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Game is one entry of a user's owned games list.
type Game struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeMinutes int64  `json:"playtime_forever"`
	IconHash        string `json:"img_icon_url"`
}

type ownedGamesEnvelope struct {
	Response struct {
		GameCount int    `json:"game_count"`
		Games     []Game `json:"games"`
	} `json:"response"`
}

// Client provides access to the Steam Web API, CDN and store front.
type Client struct {
	apiKey       string
	apiBaseURL   string
	storeBaseURL string
	cdnBaseURL   string
	httpClient   HTTPDoer
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithStoreLimiter overrides the limiter applied to store page requests.
// A nil limiter disables throttling.
func WithStoreLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates a Steam client from the steam configuration section.
func New(cfg config.Steam, opts ...Option) (*Client, error) {
	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	storeBase := strings.TrimRight(strings.TrimSpace(cfg.StoreBaseURL), "/")
	cdnBase := strings.TrimRight(strings.TrimSpace(cfg.CDNBaseURL), "/")
	if apiBase == "" || storeBase == "" || cdnBase == "" {
		return nil, errors.New("steam api, store and cdn base urls required")
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiBaseURL:   apiBase,
		storeBaseURL: storeBase,
		cdnBaseURL:   cdnBase,
		httpClient:   &http.Client{Timeout: timeout},
	}
	if cfg.StoreRequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(cfg.StoreRequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetOwnedGames returns every game owned by the account, including app names.
// A private profile yields an empty list.
func (c *Client) GetOwnedGames(ctx context.Context, steamID uint64) ([]Game, error) {
	if c.apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", "owned games", "steam api key not configured", nil)
	}
	endpoint, err := url.Parse(c.apiBaseURL + "/IPlayerService/GetOwnedGames/v0001/")
	if err != nil {
		return nil, fmt.Errorf("parse steam api url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", strconv.FormatUint(steamID, 10))
	params.Set("format", "json")
	params.Set("include_appinfo", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(classifyTransportError(err), "fetch", "owned games", fmt.Sprintf("request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, services.Wrap(services.ErrConfiguration, "fetch", "owned games",
			fmt.Sprintf("steam api rejected key (status %d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, services.Wrap(services.ErrExternalService, "fetch", "owned games",
			fmt.Sprintf("steam api returned %d: %s", resp.StatusCode, readSnippet(resp.Body)), nil)
	}

	var payload ownedGamesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "fetch", "owned games", "decode response", err)
	}
	games := payload.Response.Games
	if games == nil {
		games = []Game{}
	}
	return games, nil
}

// ImageURL returns the library cover art URL for appID.
func (c *Client) ImageURL(appID int64) string {
	return fmt.Sprintf("%s/steam/apps/%d/library_600x900.jpg", c.cdnBaseURL, appID)
}

// StorePageURL returns the store front page URL for appID.
func (c *Client) StorePageURL(appID int64) string {
	return fmt.Sprintf("%s/app/%d", c.storeBaseURL, appID)
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.ErrTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return services.ErrTimeout
	}
	return services.ErrTransient
}

func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, bodySnippetLimit))
	return strings.TrimSpace(string(data))
}
