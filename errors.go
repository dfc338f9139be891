package multipane

import "errors"

var (
	// ErrNotConnected indicates a send or sync call with no active
	// connection.
	ErrNotConnected = errors.New("not connected")
	// ErrAddressTooLong indicates a socket path over the unix sockaddr
	// limit.
	ErrAddressTooLong = errors.New("socket address too long")
	// ErrSocketNotOwned indicates a daemon socket owned by another user.
	// The transport carries no authentication; trust rests on filesystem
	// ownership of the socket inode.
	ErrSocketNotOwned = errors.New("socket not owned by current user")
	// ErrSessionNotRunning indicates no daemon socket exists for the
	// requested session.
	ErrSessionNotRunning = errors.New("session not running")
)
