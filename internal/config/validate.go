package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"steameagle/internal/steamid"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSteam(); err != nil {
		return err
	}
	if err := c.validateEagle(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireSync reports the settings a sync run needs that Validate leaves
// optional, so commands like "id" and "config init" work without them.
func (c *Config) RequireSync() error {
	hint := "~/.config/steameagle/config.toml"
	if defaultPath, err := DefaultConfigPath(); err == nil {
		hint = defaultPath
	}
	required := []struct {
		key   string
		value string
	}{
		{"steam.api_key", c.Steam.APIKey},
		{"steam.steam_id", c.Steam.SteamID},
		{"eagle.library_name", c.Eagle.LibraryName},
		{"eagle.folder_name", c.Eagle.FolderName},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required. Edit %s (create with 'steameagle config init')", field.key, hint)
		}
	}
	return nil
}

func (c *Config) validateSteam() error {
	if c.Steam.SteamID != "" {
		components := steamid.Decode(c.SteamID64())
		if components.AccountType != steamid.AccountTypeIndividual {
			return fmt.Errorf("steam.steam_id must identify an individual account, got %s", components.AccountType)
		}
	}
	if _, err := ResolveStoreLanguage(c.Steam.TagLanguage); err != nil {
		return fmt.Errorf("steam.tag_language: %w", err)
	}
	for key, value := range map[string]string{
		"steam.api_base_url":   c.Steam.APIBaseURL,
		"steam.store_base_url": c.Steam.StoreBaseURL,
		"steam.cdn_base_url":   c.Steam.CDNBaseURL,
	} {
		if err := validateHTTPURL(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if c.Steam.RequestTimeout <= 0 {
		return errors.New("steam.request_timeout must be positive")
	}
	if c.Steam.StoreRequestsPerSecond <= 0 {
		return errors.New("steam.store_requests_per_second must be positive")
	}
	return nil
}

func (c *Config) validateEagle() error {
	if err := validateHTTPURL(c.Eagle.URL); err != nil {
		return fmt.Errorf("eagle.url: %w", err)
	}
	if c.Eagle.RequestTimeout <= 0 {
		return errors.New("eagle.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Workers <= 0 {
		return errors.New("sync.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("expected http or https url, got %q", value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host in %q", value)
	}
	return nil
}
