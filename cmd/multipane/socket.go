package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/multipane"
)

func newSocketCmd(flags *rootFlags) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "socket",
		Short: "Print the resolved daemon socket path",
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := resolveTarget(flags)
			if err != nil {
				return err
			}
			if check {
				if err := multipane.ValidateSocket(tgt.socket); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tgt.socket)
			return err
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "fail unless the socket exists and is owned by the current user")
	return cmd
}
