package config

const (
	defaultTagLanguage            = "en"
	defaultSteamAPIBaseURL        = "https://api.steampowered.com"
	defaultSteamStoreBaseURL      = "https://store.steampowered.com"
	defaultSteamCDNBaseURL        = "https://cdn.cloudflare.steamstatic.com"
	defaultSteamRequestTimeout    = 30
	defaultStoreRequestsPerSecond = 2.0
	defaultEagleURL               = "http://localhost:41595"
	defaultEagleFolderName        = "Steam"
	defaultEagleRequestTimeout    = 30
	defaultImageDir               = "~/.local/share/steameagle/img"
	defaultStateDir               = "~/.local/share/steameagle"
	defaultLogDir                 = "~/.local/share/steameagle/logs"
	defaultSyncWorkers            = 4
	defaultNotifyRequestTimeout   = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Steam: Steam{
			TagLanguage:            defaultTagLanguage,
			APIBaseURL:             defaultSteamAPIBaseURL,
			StoreBaseURL:           defaultSteamStoreBaseURL,
			CDNBaseURL:             defaultSteamCDNBaseURL,
			RequestTimeout:         defaultSteamRequestTimeout,
			StoreRequestsPerSecond: defaultStoreRequestsPerSecond,
		},
		Eagle: Eagle{
			URL:            defaultEagleURL,
			FolderName:     defaultEagleFolderName,
			RequestTimeout: defaultEagleRequestTimeout,
		},
		Paths: Paths{
			ImageDir: defaultImageDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Sync: Sync{
			Workers: defaultSyncWorkers,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sync:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
