// Package notifications delivers sync events to ntfy.
//
// The ntfy topic comes from config.toml; without one the service degrades to
// a no-op. Completion and error notifications can be switched off
// individually, while TestNotification always sends.
package notifications
