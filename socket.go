package multipane

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultSession is the session name used when none is given.
const DefaultSession = "default"

// maxSocketPathLength is the portable sun_path limit. Linux allows 108
// bytes including the trailing NUL; paths at or over the limit are rejected
// before dialing so the failure names the real cause.
const maxSocketPathLength = 107

// SocketPath derives the daemon socket path for a session from the
// invoking user's identity: $XDG_RUNTIME_DIR/multipane/<session>.sock when
// the runtime directory is set, otherwise /tmp/multipane-<uid>/<session>.sock.
func SocketPath(session string) string {
	if session == "" {
		session = DefaultSession
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "multipane", session+".sock")
	}
	return filepath.Join(fmt.Sprintf("%s/multipane-%d", os.TempDir(), os.Getuid()), session+".sock")
}

// validateSocketPath rejects over-long addresses and sockets not owned by
// the invoking user. The protocol runs over a trusted local channel; the
// trust boundary is filesystem ownership.
func validateSocketPath(path string) error {
	if len(path) > maxSocketPathLength {
		return fmt.Errorf("%w: %q is %d bytes", ErrAddressTooLong, path, len(path))
	}
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		if err == unix.ENOENT {
			return fmt.Errorf("%w: no socket at %s", ErrSessionNotRunning, path)
		}
		return fmt.Errorf("stat socket %s: %w", path, err)
	}
	if int(stat.Uid) != os.Getuid() {
		return fmt.Errorf("%w: %s owned by uid %d", ErrSocketNotOwned, path, stat.Uid)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFSOCK {
		return fmt.Errorf("%s is not a socket", path)
	}
	return nil
}

// ValidateSocket reports whether a daemon socket is usable from this
// process without dialing it.
func ValidateSocket(path string) error {
	return validateSocketPath(path)
}

// SessionFromPath reports the session name a socket path was derived from,
// for logging.
func SessionFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".sock")
}
