package multipane

import (
	"context"
	"errors"
	"io"
	"sync"

	"pkt.systems/multipane/internal/logx"
	"pkt.systems/multipane/schema"
	"pkt.systems/pslog"
)

// Phase is the coarse connection lifecycle state.
type Phase string

const (
	// PhaseDisconnected is the initial state, re-entered on explicit
	// disconnect or a clean end of stream.
	PhaseDisconnected Phase = "disconnected"
	// PhaseConnecting covers dial and the attach handshake.
	PhaseConnecting Phase = "connecting"
	// PhaseConnected means the daemon acknowledged the attach.
	PhaseConnected Phase = "connected"
	// PhaseError means the connection failed; Err carries the cause.
	PhaseError Phase = "error"
)

// ConnState is the observable connection state. ClientID is meaningful in
// PhaseConnected, Err in PhaseError.
type ConnState struct {
	Phase    Phase
	ClientID uint64
	Err      string
}

// SessionEvent is a daemon notification surfaced to listeners rather than
// reflected in cached state.
type SessionEvent string

const (
	// EventKicked: this client was disconnected by another client.
	EventKicked SessionEvent = "kicked"
	// EventSessionEnded: the daemon's session ended. The daemon closes the
	// socket itself; the client does not disconnect on this event.
	EventSessionEnded SessionEvent = "session_ended"
	// EventAllWorkspacesClosed: the last workspace closed. Like
	// EventSessionEnded this does not end the connection by itself.
	EventAllWorkspacesClosed SessionEvent = "all_workspaces_closed"
)

// Listener receives decoded inbound events. Listeners are invoked from the
// dispatch goroutine in strict arrival order and must not block.
type Listener interface {
	// OnOutput delivers raw output bytes for a tab. fullScreen marks a
	// FullScreenDump: replay from a blank screen instead of appending.
	OnOutput(tabID schema.TabID, data []byte, fullScreen bool)
	// OnSessionEvent delivers kick and session-termination notifications.
	OnSessionEvent(event SessionEvent)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Session selects the daemon socket by session name. Ignored when
	// Socket is set.
	Session string
	// Socket overrides the derived socket path.
	Socket string
	// CommandOutput, when set, receives CommandOutput responses. They are
	// correlation records for synchronous callers and never touch cached
	// state.
	CommandOutput func(schema.CommandOutput)
}

// inbound is one receive-loop result handed to the dispatch goroutine.
type inbound struct {
	response schema.Response
	err      error
}

// Client is the session state machine: it owns one Conn, runs the receive
// and dispatch loops, and exposes the latest decoded daemon state. Cached
// snapshots are replaced wholesale by the dispatch goroutine, never mutated
// in place, so accessors hand out values that stay valid after release of
// the internal lock.
type Client struct {
	cfg ClientConfig
	log pslog.Logger

	mu        sync.Mutex
	conn      *Conn
	cancel    context.CancelFunc
	state     ConnState
	render    *schema.RenderState
	stats     *schema.SystemStats
	segments  [][]schema.PluginSegment
	clients   []schema.ClientInfo
	listeners []Listener
}

// NewClient builds a disconnected client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Session == "" {
		cfg.Session = DefaultSession
	}
	return &Client{
		cfg:   cfg,
		state: ConnState{Phase: PhaseDisconnected},
	}
}

// AddListener registers a listener. Register before Connect; events that
// arrive earlier are not replayed.
func (c *Client) AddListener(listener Listener) {
	if listener == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, listener)
	c.mu.Unlock()
}

// Connect dials the daemon, sends the attach request, and starts the
// receive loop. The transition to PhaseConnected happens when the daemon's
// Attached acknowledgement is dispatched. Any failure during dial or attach
// moves the client to PhaseError and is returned.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return errors.New("already connected")
	}
	c.state = ConnState{Phase: PhaseConnecting}
	session := c.cfg.Session
	if c.cfg.Socket != "" {
		session = SessionFromPath(c.cfg.Socket)
	}
	c.log = logx.WithSession(logx.Ctx(ctx), session)
	log := c.log
	c.mu.Unlock()

	path := c.cfg.Socket
	if path == "" {
		path = SocketPath(c.cfg.Session)
	}
	log.Debug("client connect", "socket", path)

	conn, err := Dial(path)
	if err != nil {
		c.failConnect(err)
		return err
	}
	if err := conn.Send(schema.Attach{}); err != nil {
		_ = conn.Close()
		c.failConnect(err)
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	events := make(chan inbound)

	c.mu.Lock()
	c.conn = conn
	c.cancel = cancel
	c.mu.Unlock()

	go c.receiveLoop(loopCtx, conn, events)
	go c.dispatchLoop(loopCtx, events)
	return nil
}

func (c *Client) failConnect(err error) {
	c.mu.Lock()
	c.state = ConnState{Phase: PhaseError, Err: err.Error()}
	c.mu.Unlock()
}

// Send forwards a request on the active connection.
func (c *Client) Send(request schema.Request) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(request)
}

// Disconnect cancels the receive loop, closes the connection, resets state
// to PhaseDisconnected, and clears cached snapshots. Idempotent and safe
// from any goroutine; it never waits for the loop to observe cancellation.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	c.conn = nil
	c.cancel = nil
	c.state = ConnState{Phase: PhaseDisconnected}
	c.render = nil
	c.stats = nil
	c.segments = nil
	c.clients = nil
	log := c.log
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
		if log != nil {
			log.Debug("client disconnected")
		}
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RenderState returns the latest layout snapshot, or nil before the first
// LayoutChanged.
func (c *Client) RenderState() *schema.RenderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render
}

// Stats returns the latest system statistics; ok is false before the first
// StatsUpdate.
func (c *Client) Stats() (stats schema.SystemStats, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return schema.SystemStats{}, false
	}
	return *c.stats, true
}

// PluginSegments returns the latest plugin status segments.
func (c *Client) PluginSegments() [][]schema.PluginSegment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segments
}

// Clients returns the latest attached-client list.
func (c *Client) Clients() []schema.ClientInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clients
}

// receiveLoop is the sole reader of the connection. It checks cancellation
// before each read and forwards every result to the dispatch loop; a result
// completing after cancellation is discarded.
func (c *Client) receiveLoop(ctx context.Context, conn *Conn, events chan<- inbound) {
	defer close(events)
	for {
		if ctx.Err() != nil {
			return
		}
		response, err := conn.Receive()
		select {
		case events <- inbound{response: response, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatchLoop is the single writer of cached state. It applies each
// decoded response per the dispatch table and stops on the first receive
// error: a clean end of stream resets to PhaseDisconnected, anything else
// records PhaseError. Decode errors are fatal to the loop; protocol
// integrity over availability.
func (c *Client) dispatchLoop(ctx context.Context, events <-chan inbound) {
	for event := range events {
		if ctx.Err() != nil {
			return
		}
		if event.err != nil {
			c.finishLoop(event.err)
			return
		}
		c.dispatch(event.response)
	}
}

// finishLoop records the loop's terminal condition and releases the dead
// connection, so a later Connect can start over and Send reports
// ErrNotConnected instead of writing to a closed socket.
func (c *Client) finishLoop(err error) {
	clean := errors.Is(err, io.EOF)

	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	c.conn = nil
	c.cancel = nil
	log := c.log
	if clean {
		c.state = ConnState{Phase: PhaseDisconnected}
	} else {
		c.state = ConnState{Phase: PhaseError, Err: err.Error()}
	}
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if log != nil {
		if clean {
			log.Info("connection closed by daemon")
		} else {
			log.Error("receive loop failed", "err", err)
		}
	}
}

func (c *Client) dispatch(response schema.Response) {
	switch m := response.(type) {
	case schema.Attached:
		c.mu.Lock()
		c.state = ConnState{Phase: PhaseConnected, ClientID: m.ClientID}
		if c.log != nil {
			c.log = logx.WithClientID(c.log, m.ClientID)
		}
		log := c.log
		c.mu.Unlock()
		if log != nil {
			log.Info("attached")
		}
	case schema.PaneOutput:
		c.emitOutput(m.TabID, m.Data, false)
	case schema.FullScreenDump:
		c.emitOutput(m.TabID, m.Data, true)
	case schema.TabExited:
		// No state change: the daemon sends a LayoutChanged snapshot
		// reflecting the exit right after.
		c.mu.Lock()
		log := c.log
		c.mu.Unlock()
		if log != nil {
			logx.WithTab(log, m.TabID).Debug("tab exited")
		}
	case schema.LayoutChanged:
		state := m.RenderState
		c.mu.Lock()
		c.render = &state
		c.mu.Unlock()
	case schema.StatsUpdate:
		stats := schema.SystemStats(m)
		c.mu.Lock()
		c.stats = &stats
		c.mu.Unlock()
	case schema.PluginSegments:
		c.mu.Lock()
		c.segments = m
		c.mu.Unlock()
	case schema.ClientList:
		c.mu.Lock()
		c.clients = m
		c.mu.Unlock()
	case schema.Kicked:
		c.emitSessionEvent(EventKicked)
		c.Disconnect()
	case schema.ErrorMessage:
		c.mu.Lock()
		c.state = ConnState{Phase: PhaseError, Err: string(m)}
		log := c.log
		c.mu.Unlock()
		if log != nil {
			log.Error("daemon error", "err", string(m))
		}
	case schema.SessionEnded:
		// Not terminal for the connection: the daemon closes the socket
		// itself shortly after, which the loop observes as a clean close.
		c.emitSessionEvent(EventSessionEnded)
	case schema.AllWorkspacesClosed:
		c.emitSessionEvent(EventAllWorkspacesClosed)
	case schema.CommandOutput:
		if c.cfg.CommandOutput != nil {
			c.cfg.CommandOutput(m)
		}
	}
}

func (c *Client) emitOutput(tabID schema.TabID, data []byte, fullScreen bool) {
	for _, listener := range c.snapshotListeners() {
		listener.OnOutput(tabID, data, fullScreen)
	}
}

func (c *Client) emitSessionEvent(event SessionEvent) {
	for _, listener := range c.snapshotListeners() {
		listener.OnSessionEvent(event)
	}
}

func (c *Client) snapshotListeners() []Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Listener, len(c.listeners))
	copy(out, c.listeners)
	return out
}
