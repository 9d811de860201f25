// Package eagle wraps the local HTTP API exposed by the Eagle desktop app.
//
// Only the endpoints the importer needs are covered: library info, folder
// listing and creation, and bulk item import from local paths. Every response
// uses Eagle's {status, data} envelope; anything other than status "success"
// is reported as an external service error.
package eagle
