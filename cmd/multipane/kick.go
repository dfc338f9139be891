package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/multipane"
	"pkt.systems/multipane/schema"
	"pkt.systems/pslog"
)

func newKickCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kick [client-id]",
		Short: "List attached clients, or disconnect one by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := resolveTarget(flags)
			if err != nil {
				return err
			}
			conn, err := multipane.Dial(tgt.socket)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := conn.SetDeadline(time.Now().Add(tgt.timeout)); err != nil {
				return err
			}
			if err := conn.Send(schema.Attach{}); err != nil {
				return err
			}
			self, clients, err := awaitClientList(conn)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, client := range clients {
					marker := ""
					if client.ID == self {
						marker = " (this connection)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%dx%d%s\n", client.ID, client.Width, client.Height, marker)
				}
				return nil
			}

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid client id %q: %w", args[0], err)
			}
			if id == self {
				return fmt.Errorf("client %d is this connection", id)
			}
			if err := conn.Send(schema.KickClient(id)); err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("kick requested", "client_id", id)
			return nil
		},
	}
}

// awaitClientList reads until the daemon has acknowledged the attach and
// broadcast the updated client roster, which it does for every attach.
func awaitClientList(conn *multipane.Conn) (self uint64, clients []schema.ClientInfo, err error) {
	attached := false
	for {
		response, err := conn.Receive()
		if err != nil {
			return 0, nil, err
		}
		switch m := response.(type) {
		case schema.Attached:
			attached = true
			self = m.ClientID
		case schema.ClientList:
			clients = m
			if attached {
				return self, clients, nil
			}
		case schema.ErrorMessage:
			return 0, nil, fmt.Errorf("daemon: %s", string(m))
		}
	}
}
