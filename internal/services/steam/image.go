package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"steameagle/internal/fileutil"
	"steameagle/internal/services"
)

// DownloadImage saves the cover art for appID to destPath. Existing files are
// left untouched unless overwrite is set; written reports whether a new file
// was stored.
func (c *Client) DownloadImage(ctx context.Context, appID int64, destPath string, overwrite bool) (bool, error) {
	if !overwrite {
		if _, err := os.Stat(destPath); err == nil {
			return false, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", destPath, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(appID), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, services.Wrap(classifyTransportError(err), "download", "image", "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, services.Wrap(services.ErrNotFound, "download", "image",
			fmt.Sprintf("no library art for app %d", appID), nil)
	case resp.StatusCode != http.StatusOK:
		return false, services.Wrap(services.ErrExternalService, "download", "image",
			fmt.Sprintf("cdn returned %d for app %d", resp.StatusCode, appID), nil)
	}

	if _, err := fileutil.WriteAtomic(destPath, resp.Body, resp.ContentLength); err != nil {
		return false, services.Wrap(services.ErrTransient, "download", "image", "save file", err)
	}
	return true, nil
}
