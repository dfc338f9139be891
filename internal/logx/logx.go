// Package logx centralizes the pslog annotations used across the client:
// session, client id, and tab identifiers.
package logx

import (
	"context"

	"pkt.systems/multipane/schema"
	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the session name when available.
func WithSession(log pslog.Logger, session string) pslog.Logger {
	if session != "" {
		log = log.With("session", session)
	}
	return log
}

// WithClientID annotates the logger with the daemon-assigned client id.
func WithClientID(log pslog.Logger, clientID uint64) pslog.Logger {
	return log.With("client_id", clientID)
}

// WithTab annotates the logger with a tab identifier.
func WithTab(log pslog.Logger, tabID schema.TabID) pslog.Logger {
	return log.With("tab", tabID.String())
}
