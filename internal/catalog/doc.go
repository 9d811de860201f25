// Package catalog persists the owned-games catalog and per-game sync state in
// a SQLite database under the state directory.
//
// The catalog replaces loose JSON snapshots: it records each game's name,
// where its cover art was saved, the scraped store tags, any download
// failures, and when the game was last handed to Eagle. Writes retry briefly
// when SQLite reports the database as busy.
package catalog
