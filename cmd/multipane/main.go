package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("multipane command failed")
		return 1
	}
	return 0
}

// rootFlags are shared by every subcommand that talks to a daemon.
type rootFlags struct {
	configPath string
	session    string
	socket     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "multipane",
		Short:         "Multipane terminal multiplexer client",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVarP(&flags.session, "session", "s", "", "session name (overrides config)")
	root.PersistentFlags().StringVar(&flags.socket, "socket", "", "socket path (overrides session)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newSocketCmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newKickCmd(flags))
	root.AddCommand(newWatchCmd(flags))

	return root
}
