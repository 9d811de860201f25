package eagle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"steameagle/internal/config"
	"steameagle/internal/services"
)

const bodySnippetLimit = 512

// HTTPDoer describes the HTTP client used by the Eagle client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Library describes the library currently opened in Eagle.
type Library struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Folder is an Eagle folder. Children are populated for nested folders.
type Folder struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Children []Folder `json:"children,omitempty"`
}

// Item is one file to import via addFromPaths.
type Item struct {
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Website string   `json:"website,omitempty"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client talks to the Eagle local API.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
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

// New creates an Eagle client from the eagle configuration section.
func New(cfg config.Eagle, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("eagle url required")
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LibraryInfo returns the library currently opened in Eagle.
func (c *Client) LibraryInfo(ctx context.Context) (Library, error) {
	var data struct {
		Library Library `json:"library"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/library/info", nil, &data); err != nil {
		return Library{}, err
	}
	return data.Library, nil
}

// ListFolders returns the top-level folders of the open library.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := c.call(ctx, http.MethodGet, "/api/folder/list", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a top-level folder named name.
func (c *Client) CreateFolder(ctx context.Context, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, services.Wrap(services.ErrValidation, "load", "create folder", "folder name must not be empty", nil)
	}
	var folder Folder
	payload := map[string]string{"folderName": name}
	if err := c.call(ctx, http.MethodPost, "/api/folder/create", payload, &folder); err != nil {
		return Folder{}, err
	}
	if folder.ID == "" {
		return Folder{}, services.Wrap(services.ErrExternalService, "load", "create folder", "eagle returned no folder id", nil)
	}
	return folder, nil
}

// EnsureFolder verifies that Eagle has libraryName open and returns the ID of
// the top-level folder named folderName, creating it when missing.
func (c *Client) EnsureFolder(ctx context.Context, libraryName, folderName string) (string, bool, error) {
	lib, err := c.LibraryInfo(ctx)
	if err != nil {
		return "", false, err
	}
	if lib.Name != libraryName {
		return "", false, services.Wrap(services.ErrConfiguration, "load", "library check",
			fmt.Sprintf("library name mismatch: configured %q, eagle has %q open", libraryName, lib.Name), nil)
	}

	folders, err := c.ListFolders(ctx)
	if err != nil {
		return "", false, err
	}
	for _, folder := range folders {
		if folder.Name == folderName {
			return folder.ID, false, nil
		}
	}

	folder, err := c.CreateFolder(ctx, folderName)
	if err != nil {
		return "", false, err
	}
	return folder.ID, true, nil
}

// AddFromPaths queues items for import into folderID. Eagle imports
// asynchronously; success means the batch was accepted.
func (c *Client) AddFromPaths(ctx context.Context, folderID string, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	payload := struct {
		Items    []Item `json:"items"`
		FolderID string `json:"folderId,omitempty"`
	}{Items: items, FolderID: folderID}
	return c.call(ctx, http.MethodPost, "/api/item/addFromPaths", payload, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode eagle request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		marker := services.ErrExternalService
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "eagle", path, "request failed; is Eagle running?", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "eagle", path, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalService, "eagle", path,
			fmt.Sprintf("eagle returned %d: %s", resp.StatusCode, snippet(raw)), nil)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return services.Wrap(services.ErrExternalService, "eagle", path, "decode envelope", err)
	}
	if env.Status != "success" {
		detail := strings.TrimSpace(env.Message)
		if detail == "" {
			detail = snippet(raw)
		}
		return services.Wrap(services.ErrExternalService, "eagle", path,
			fmt.Sprintf("eagle status %q: %s", env.Status, detail), nil)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return services.Wrap(services.ErrExternalService, "eagle", path, "decode data", err)
	}
	return nil
}

func snippet(raw []byte) string {
	if len(raw) > bodySnippetLimit {
		raw = raw[:bodySnippetLimit]
	}
	return strings.TrimSpace(string(raw))
}
