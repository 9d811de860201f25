// Package services defines shared utilities consumed by the sync stages and
// their external integrations (Steam Web API, Steam store, Eagle).
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, Steam app IDs and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that let the workflow
//     decide whether a failure aborts a stage or is recorded against a game.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the sync pipeline.
package services
