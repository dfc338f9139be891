package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/multipane"
	"pkt.systems/pslog"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run one command in the session and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := resolveTarget(flags)
			if err != nil {
				return err
			}
			command := strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(cmd.Context(), tgt.timeout)
			defer cancel()

			output, err := multipane.SyncCommand(ctx, tgt.socket, command)
			if err != nil {
				return err
			}
			if output.Output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), output.Output)
			}
			if !output.Success {
				pslog.Ctx(cmd.Context()).Warn("command failed", "command", command)
				return fmt.Errorf("command failed: %s", command)
			}
			return nil
		},
	}
}
