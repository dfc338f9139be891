package multipane

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pkt.systems/multipane/internal/logx"
	"pkt.systems/multipane/schema"
	"pkt.systems/multipane/wire"
)

// SyncCommand opens a short-lived connection, runs one command through the
// daemon's synchronous path, and returns its correlated output. Responses
// other than CommandOutput arriving on the stream are skipped; a daemon
// Error response or an end of stream before the output arrives fails the
// call. A context deadline bounds the whole exchange.
func SyncCommand(ctx context.Context, path, command string) (schema.CommandOutput, error) {
	log := logx.Ctx(ctx)
	conn, err := Dial(path)
	if err != nil {
		return schema.CommandOutput{}, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return schema.CommandOutput{}, err
		}
	}

	log.Debug("sync command", "command", command)
	if err := conn.Send(schema.CommandSync(command)); err != nil {
		return schema.CommandOutput{}, err
	}
	for {
		response, err := conn.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, wire.ErrConnectionClosed) {
				return schema.CommandOutput{}, fmt.Errorf("connection closed before command output: %w", err)
			}
			return schema.CommandOutput{}, err
		}
		switch m := response.(type) {
		case schema.CommandOutput:
			return m, nil
		case schema.ErrorMessage:
			return schema.CommandOutput{}, fmt.Errorf("daemon: %s", string(m))
		}
	}
}

// SyncSessionCommand is SyncCommand against a session's default socket.
func SyncSessionCommand(ctx context.Context, session, command string) (schema.CommandOutput, error) {
	return SyncCommand(ctx, SocketPath(session), command)
}
