// Package multipane is the client side of the multipane daemon protocol:
// a framed JSON stream over a per-user unix socket. Conn owns one stream
// and moves single messages; Client drives the session state machine on
// top of it.
package multipane

import (
	"fmt"
	"net"
	"sync"
	"time"

	"pkt.systems/multipane/schema"
	"pkt.systems/multipane/wire"
)

// Conn is one connection to a multipane daemon. Sends from any number of
// goroutines are serialized so frames never interleave; Receive must be
// called from a single reader, which the Client's receive loop guarantees.
type Conn struct {
	stream net.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the daemon socket at path.
func Dial(path string) (*Conn, error) {
	if err := validateSocketPath(path); err != nil {
		return nil, err
	}
	stream, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	return &Conn{stream: stream}, nil
}

// DialSession connects to the default socket for a session name.
func DialSession(session string) (*Conn, error) {
	return Dial(SocketPath(session))
}

// newConn wraps an established stream; used by tests to drive a Conn over
// an in-memory pipe.
func newConn(stream net.Conn) *Conn {
	return &Conn{stream: stream}
}

// Send encodes one request and writes the complete frame. Concurrent
// callers are serialized.
func (c *Conn) Send(request schema.Request) error {
	payload, err := schema.EncodeRequest(request)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wire.WriteFrame(c.stream, payload)
}

// Receive reads one framed response. It returns io.EOF on a clean close at
// a frame boundary; a close mid-frame or a malformed frame is an error.
func (c *Conn) Receive() (schema.Response, error) {
	payload, err := wire.ReadFrame(c.stream)
	if err != nil {
		return nil, err
	}
	return schema.DecodeResponse(payload)
}

// SetDeadline bounds all pending and future stream operations.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.stream.SetDeadline(t)
}

// Close shuts down both directions of the stream. Idempotent; safe from
// any goroutine, including concurrently with a blocked Receive, which will
// return once the stream unblocks.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.stream.Close()
	})
	return c.closeErr
}
