// Package config loads, normalizes, and validates steameagle configuration.
//
// Configuration lives in TOML (default ~/.config/steameagle/config.toml, or
// ./steameagle.toml when present). Load layers the file over Default(),
// expands paths, accepts STEAM_API_KEY and STEAM_ID from the environment,
// canonicalises steam_id to a decimal id64, and validates the result.
// Settings that only a sync run needs are checked separately by RequireSync.
//
// CreateSample writes the embedded sample_config.toml for `steameagle config init`.
package config
