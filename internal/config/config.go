package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Steam contains credentials and endpoints for the Steam Web API, store and CDN.
type Steam struct {
	APIKey                 string  `toml:"api_key"`
	SteamID                string  `toml:"steam_id"`
	TagLanguage            string  `toml:"tag_language"`
	APIBaseURL             string  `toml:"api_base_url"`
	StoreBaseURL           string  `toml:"store_base_url"`
	CDNBaseURL             string  `toml:"cdn_base_url"`
	RequestTimeout         int     `toml:"request_timeout"`
	StoreRequestsPerSecond float64 `toml:"store_requests_per_second"`
}

// Eagle contains configuration for the local Eagle API.
type Eagle struct {
	URL            string `toml:"url"`
	LibraryName    string `toml:"library_name"`
	FolderName     string `toml:"folder_name"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Paths contains directories used for downloaded art, state and logs.
type Paths struct {
	ImageDir string `toml:"image_dir"`
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Sync contains knobs for the download stage.
type Sync struct {
	Workers         int  `toml:"workers"`
	OverwriteImages bool `toml:"overwrite_images"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sync           bool   `toml:"sync"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for steameagle.
//
// Configuration sections by subsystem:
//   - Steam: owned-games API, store tag scraping and cover art CDN
//   - Eagle: local Eagle API, target library and folder
//   - Paths: image, state and log directories
//   - Sync: download concurrency and overwrite behaviour
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Steam         Steam         `toml:"steam"`
	Eagle         Eagle         `toml:"eagle"`
	Paths         Paths         `toml:"paths"`
	Sync          Sync          `toml:"sync"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/steameagle/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("steameagle.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the image, state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ImageDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SteamID64 returns the configured account identifier. It is zero when no
// steam_id is configured.
func (c *Config) SteamID64() uint64 {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Steam.SteamID), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// StoreLanguage returns the Steam store "l" parameter for the configured tag
// language. Validate guarantees it resolves for a loaded config.
func (c *Config) StoreLanguage() string {
	lang, _ := ResolveStoreLanguage(c.Steam.TagLanguage)
	return lang
}

// CatalogPath returns the SQLite state database location.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.StateDir, "catalog.db")
}

// LockPath returns the file used to keep sync runs exclusive.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "steameagle.lock")
}

// FailureReportPath returns the JSON report of games whose downloads failed.
func (c *Config) FailureReportPath() string {
	return filepath.Join(c.Paths.StateDir, "failed_data_download.json")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
