// Package notify provides a ready-made SMTP [goReset.Notifier] for callers
// that do not deliver reset links through their own channels.
package notify
