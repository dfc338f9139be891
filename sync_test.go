package multipane

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"pkt.systems/multipane/schema"
	"pkt.systems/multipane/wire"
)

func expectCommandSync(t *testing.T, conn net.Conn, want string) bool {
	payload, err := wire.ReadFrame(conn)
	if err != nil {
		t.Errorf("read command: %v", err)
		return false
	}
	request, err := schema.DecodeRequest(payload)
	if err != nil {
		t.Errorf("decode command: %v", err)
		return false
	}
	if request != schema.CommandSync(want) {
		t.Errorf("expected CommandSync(%q), got %#v", want, request)
		return false
	}
	return true
}

func TestSyncCommandReturnsOutput(t *testing.T) {
	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectCommandSync(t, conn, "list-panes") {
			return
		}
		// Unrelated broadcasts interleave ahead of the correlated result.
		sendResponse(t, conn, schema.StatsUpdate{CPUPercent: 3})
		sendResponse(t, conn, schema.ClientList{{ID: 1, Width: 80, Height: 24}})
		sendResponse(t, conn, schema.CommandOutput{Output: "pane 0: zsh", Success: true})
	})

	output, err := SyncCommand(context.Background(), path, "list-panes")
	if err != nil {
		t.Fatalf("sync command: %v", err)
	}
	if output.Output != "pane 0: zsh" || !output.Success {
		t.Fatalf("unexpected output %#v", output)
	}
}

func TestSyncCommandDaemonError(t *testing.T) {
	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectCommandSync(t, conn, "kill-pane 9") {
			return
		}
		sendResponse(t, conn, schema.ErrorMessage("no such pane"))
	})

	_, err := SyncCommand(context.Background(), path, "kill-pane 9")
	if err == nil || !strings.Contains(err.Error(), "no such pane") {
		t.Fatalf("expected daemon error, got %v", err)
	}
}

func TestSyncCommandConnectionClosedBeforeOutput(t *testing.T) {
	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectCommandSync(t, conn, "split-h") {
			return
		}
		sendResponse(t, conn, schema.StatsUpdate{})
	})

	_, err := SyncCommand(context.Background(), path, "split-h")
	if err == nil || !strings.Contains(err.Error(), "connection closed") {
		t.Fatalf("expected closed-connection error, got %v", err)
	}
}

func TestSyncCommandHonorsDeadline(t *testing.T) {
	hold := make(chan struct{})
	t.Cleanup(func() { close(hold) })

	path := startFakeDaemon(t, func(conn net.Conn) {
		if !expectCommandSync(t, conn, "hang") {
			return
		}
		<-hold
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := SyncCommand(ctx, path, "hang")
	if err == nil {
		t.Fatalf("expected deadline error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("deadline not honored, took %v", elapsed)
	}
}
