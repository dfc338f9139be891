package main

import (
	"time"

	"pkt.systems/multipane"
	"pkt.systems/multipane/internal/appconfig"
)

// target is the resolved daemon endpoint for one invocation. Flag values
// win over config file values; an explicit socket wins over the session.
type target struct {
	session string
	socket  string
	timeout time.Duration
}

func resolveTarget(flags *rootFlags) (target, error) {
	cfg, err := appconfig.Load(flags.configPath)
	if err != nil {
		return target{}, err
	}
	out := target{
		session: cfg.Session,
		socket:  cfg.Socket,
		timeout: time.Duration(cfg.Command.TimeoutSeconds) * time.Second,
	}
	if flags.session != "" {
		out.session = flags.session
		out.socket = ""
	}
	if flags.socket != "" {
		out.socket = flags.socket
	}
	if out.socket == "" {
		out.socket = multipane.SocketPath(out.session)
	}
	return out, nil
}
