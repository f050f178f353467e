// Package notifications sends ntfy push notifications about translation runs.
//
// When no topic is configured the returned Notifier does nothing, so callers
// never need to check whether notifications are enabled.
package notifications
