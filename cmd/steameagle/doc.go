// Package main hosts the steameagle CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto the sync
// workflow stages, catalog inspection, SteamID decoding, preflight checks and
// configuration scaffolding. Configuration and logging are resolved lazily so
// commands such as `id` and `config init` work without a valid config file.
//
// Keep this package lean: new behaviour belongs in the internal packages first
// and is surfaced here through dedicated commands or flags.
package main
