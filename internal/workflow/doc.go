// Package workflow runs the sync pipeline that mirrors a Steam library into
// Eagle.
//
// The Manager drives three stages against the catalog:
//   - fetch: pull the owned games list from the Steam Web API
//   - download: save library cover art and scrape store tags per game
//   - load: hand downloaded covers to Eagle with names, tags and source URLs
//
// Each invocation holds an exclusive file lock under the state directory and
// carries a fresh run ID in its context so every log line and notification
// can be tied back to one run. Per-game download failures never abort the
// download stage; they are recorded in the catalog and summarized in the
// failure report instead.
package workflow
