package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"steameagle/internal/steamid"
)

func (c *Config) normalize() error {
	if err := c.normalizeSteam(); err != nil {
		return err
	}
	c.normalizeEagle()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSync()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSteam() error {
	c.Steam.APIKey = strings.TrimSpace(c.Steam.APIKey)
	if c.Steam.APIKey == "" {
		if value, ok := os.LookupEnv("STEAM_API_KEY"); ok {
			c.Steam.APIKey = strings.TrimSpace(value)
		}
	}
	c.Steam.SteamID = strings.TrimSpace(c.Steam.SteamID)
	if c.Steam.SteamID == "" {
		if value, ok := os.LookupEnv("STEAM_ID"); ok {
			c.Steam.SteamID = strings.TrimSpace(value)
		}
	}
	if c.Steam.SteamID != "" {
		id, err := steamid.Parse(c.Steam.SteamID)
		if err != nil {
			return fmt.Errorf("steam.steam_id: %w", err)
		}
		c.Steam.SteamID = strconv.FormatUint(id, 10)
	}

	c.Steam.TagLanguage = strings.TrimSpace(c.Steam.TagLanguage)
	if c.Steam.TagLanguage == "" {
		c.Steam.TagLanguage = defaultTagLanguage
	}
	c.Steam.APIBaseURL = trimURL(c.Steam.APIBaseURL, defaultSteamAPIBaseURL)
	c.Steam.StoreBaseURL = trimURL(c.Steam.StoreBaseURL, defaultSteamStoreBaseURL)
	c.Steam.CDNBaseURL = trimURL(c.Steam.CDNBaseURL, defaultSteamCDNBaseURL)
	if c.Steam.RequestTimeout <= 0 {
		c.Steam.RequestTimeout = defaultSteamRequestTimeout
	}
	if c.Steam.StoreRequestsPerSecond <= 0 {
		c.Steam.StoreRequestsPerSecond = defaultStoreRequestsPerSecond
	}
	return nil
}

func (c *Config) normalizeEagle() {
	c.Eagle.URL = trimURL(c.Eagle.URL, defaultEagleURL)
	c.Eagle.LibraryName = strings.TrimSpace(c.Eagle.LibraryName)
	c.Eagle.FolderName = strings.TrimSpace(c.Eagle.FolderName)
	if c.Eagle.RequestTimeout <= 0 {
		c.Eagle.RequestTimeout = defaultEagleRequestTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ImageDir) == "" {
		c.Paths.ImageDir = defaultImageDir
	}
	if c.Paths.ImageDir, err = expandPath(c.Paths.ImageDir); err != nil {
		return fmt.Errorf("paths.image_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSync() {
	if c.Sync.Workers <= 0 {
		c.Sync.Workers = defaultSyncWorkers
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimURL(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return value
}
