package multipane

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pkt.systems/multipane/schema"
	"pkt.systems/multipane/wire"
)

// startFakeDaemon listens on a fresh unix socket and runs script against
// the first accepted connection. The connection closes when script returns.
func startFakeDaemon(t *testing.T, script func(conn net.Conn)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daemon.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		script(conn)
	}()
	return path
}

func expectAttach(t *testing.T, conn net.Conn) bool {
	payload, err := wire.ReadFrame(conn)
	if err != nil {
		t.Errorf("read attach: %v", err)
		return false
	}
	request, err := schema.DecodeRequest(payload)
	if err != nil {
		t.Errorf("decode attach: %v", err)
		return false
	}
	if request != (schema.Attach{}) {
		t.Errorf("expected Attach, got %#v", request)
		return false
	}
	return true
}

func sendResponse(t *testing.T, conn net.Conn, response schema.Response) {
	payload, err := schema.EncodeResponse(response)
	if err != nil {
		t.Errorf("encode %T: %v", response, err)
		return
	}
	if err := wire.WriteFrame(conn, payload); err != nil {
		t.Errorf("write %T: %v", response, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// recordingListener captures dispatched events for assertions.
type recordingListener struct {
	mu       sync.Mutex
	outputs  []recordedOutput
	sessions []SessionEvent
}

type recordedOutput struct {
	tabID      schema.TabID
	data       string
	fullScreen bool
}

func (l *recordingListener) OnOutput(tabID schema.TabID, data []byte, fullScreen bool) {
	l.mu.Lock()
	l.outputs = append(l.outputs, recordedOutput{tabID: tabID, data: string(data), fullScreen: fullScreen})
	l.mu.Unlock()
}

func (l *recordingListener) OnSessionEvent(event SessionEvent) {
	l.mu.Lock()
	l.sessions = append(l.sessions, event)
	l.mu.Unlock()
}

func (l *recordingListener) sessionEvents() []SessionEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SessionEvent, len(l.sessions))
	copy(out, l.sessions)
	return out
}

func (l *recordingListener) recordedOutputs() []recordedOutput {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]recordedOutput, len(l.outputs))
	copy(out, l.outputs)
	return out
}

func TestClientAttachDispatchesState(t *testing.T) {
	windowID := schema.NewWindowID()
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 7})
		sendResponse(t, conn, schema.LayoutChanged{RenderState: schema.RenderState{
			Workspaces: []schema.WorkspaceSnapshot{{
				Name:        "main",
				Layout:      schema.NewLeaf(windowID),
				ActiveGroup: windowID,
			}},
		}})
		sendResponse(t, conn, schema.StatsUpdate{CPUPercent: 10})
		sendResponse(t, conn, schema.PluginSegments{{{Text: "git:main", Style: "bold"}}})
		sendResponse(t, conn, schema.ClientList{{ID: 7, Width: 80, Height: 24}})
		sendResponse(t, conn, schema.SessionEnded{})
		<-hold
	})

	listener := &recordingListener{}
	client := NewClient(ClientConfig{Socket: path})
	client.AddListener(listener)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "attached state", func() bool {
		state := client.State()
		return state.Phase == PhaseConnected && state.ClientID == 7
	})
	waitFor(t, "render state", func() bool {
		render := client.RenderState()
		return render != nil && len(render.Workspaces) == 1 && render.Workspaces[0].Name == "main"
	})
	waitFor(t, "stats", func() bool {
		stats, ok := client.Stats()
		return ok && stats.CPUPercent == 10
	})
	waitFor(t, "segments", func() bool {
		segments := client.PluginSegments()
		return len(segments) == 1 && len(segments[0]) == 1 && segments[0][0].Text == "git:main"
	})
	waitFor(t, "client list", func() bool {
		clients := client.Clients()
		return len(clients) == 1 && clients[0].ID == 7
	})
	waitFor(t, "session event", func() bool {
		events := listener.sessionEvents()
		return len(events) == 1 && events[0] == EventSessionEnded
	})

	// SessionEnded alone must not tear down the connection.
	if state := client.State(); state.Phase != PhaseConnected {
		t.Fatalf("expected still connected, got %+v", state)
	}
}

func TestClientOutputDelivery(t *testing.T) {
	tabID := schema.NewTabID()
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 1})
		sendResponse(t, conn, schema.PaneOutput{TabID: tabID, Data: schema.OutputBytes("hello")})
		sendResponse(t, conn, schema.FullScreenDump{TabID: tabID, Data: schema.OutputBytes("redraw")})
		<-hold
	})

	listener := &recordingListener{}
	client := NewClient(ClientConfig{Socket: path})
	client.AddListener(listener)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "output events", func() bool {
		return len(listener.recordedOutputs()) == 2
	})
	outputs := listener.recordedOutputs()
	if outputs[0] != (recordedOutput{tabID: tabID, data: "hello", fullScreen: false}) {
		t.Fatalf("first output %#v", outputs[0])
	}
	if outputs[1] != (recordedOutput{tabID: tabID, data: "redraw", fullScreen: true}) {
		t.Fatalf("second output %#v", outputs[1])
	}
}

func TestClientKickedNotifiesThenDisconnects(t *testing.T) {
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 2})
		sendResponse(t, conn, schema.Kicked{})
		<-hold
	})

	listener := &recordingListener{}
	client := NewClient(ClientConfig{Socket: path})
	client.AddListener(listener)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "kick event", func() bool {
		events := listener.sessionEvents()
		return len(events) == 1 && events[0] == EventKicked
	})
	waitFor(t, "disconnected state", func() bool {
		return client.State().Phase == PhaseDisconnected
	})
	if err := client.Send(schema.Detach{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after kick, got %v", err)
	}
}

func TestClientCleanServerCloseResetsState(t *testing.T) {
	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 4})
	})

	client := NewClient(ClientConfig{Socket: path})
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "disconnected after close", func() bool {
		return client.State().Phase == PhaseDisconnected
	})
	if state := client.State(); state.Err != "" {
		t.Fatalf("clean close must not record an error, got %+v", state)
	}
}

func TestClientReconnectAfterServerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	// First connection closes after the attach; the second stays up.
	go func() {
		for id := uint64(1); id <= 2; id++ {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			if !expectAttach(t, conn) {
				conn.Close()
				return
			}
			sendResponse(t, conn, schema.Attached{ClientID: id})
			if id == 1 {
				conn.Close()
				continue
			}
			<-hold
			conn.Close()
		}
	}()

	client := NewClient(ClientConfig{Socket: path})
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	waitFor(t, "disconnected after close", func() bool {
		return client.State().Phase == PhaseDisconnected
	})

	// The dead connection is released: Send reports no connection rather
	// than writing to a closed socket, and a fresh Connect is allowed.
	if err := client.Send(schema.Detach{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after close, got %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("second connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "reattached state", func() bool {
		state := client.State()
		return state.Phase == PhaseConnected && state.ClientID == 2
	})
	if err := client.Send(schema.Detach{}); err != nil {
		t.Fatalf("send on second connection: %v", err)
	}
}

func TestClientErrorMessageSetsErrorState(t *testing.T) {
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 5})
		sendResponse(t, conn, schema.ErrorMessage("no such workspace"))
		<-hold
	})

	client := NewClient(ClientConfig{Socket: path})
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "error state", func() bool {
		state := client.State()
		return state.Phase == PhaseError && state.Err == "no such workspace"
	})
}

func TestClientCommandOutputHook(t *testing.T) {
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 6})
		sendResponse(t, conn, schema.CommandOutput{Output: "done", Success: true})
		<-hold
	})

	var mu sync.Mutex
	var got []schema.CommandOutput
	client := NewClient(ClientConfig{
		Socket: path,
		CommandOutput: func(output schema.CommandOutput) {
			mu.Lock()
			got = append(got, output)
			mu.Unlock()
		},
	})
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect()

	waitFor(t, "command output", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0].Output == "done" && got[0].Success
	})
	if client.RenderState() != nil {
		t.Fatalf("command output must not touch cached state")
	}
}

func TestClientSendBeforeConnect(t *testing.T) {
	client := NewClient(ClientConfig{})
	if err := client.Send(schema.Detach{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestClientConnectMissingSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.sock")
	client := NewClient(ClientConfig{Socket: path})

	err := client.Connect(context.Background())
	if !errors.Is(err, ErrSessionNotRunning) {
		t.Fatalf("expected ErrSessionNotRunning, got %v", err)
	}
	state := client.State()
	if state.Phase != PhaseError || state.Err == "" {
		t.Fatalf("expected error state, got %+v", state)
	}
}

func TestClientDisconnectClearsCaches(t *testing.T) {
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectAttach(t, conn) {
			return
		}
		sendResponse(t, conn, schema.Attached{ClientID: 8})
		sendResponse(t, conn, schema.StatsUpdate{CPUPercent: 50})
		<-hold
	})

	client := NewClient(ClientConfig{Socket: path})
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	waitFor(t, "stats", func() bool {
		_, ok := client.Stats()
		return ok
	})

	client.Disconnect()
	client.Disconnect() // idempotent

	if state := client.State(); state.Phase != PhaseDisconnected {
		t.Fatalf("expected disconnected, got %+v", state)
	}
	if _, ok := client.Stats(); ok {
		t.Fatalf("expected stats cleared")
	}
	if client.RenderState() != nil || client.Clients() != nil || client.PluginSegments() != nil {
		t.Fatalf("expected caches cleared")
	}
}
