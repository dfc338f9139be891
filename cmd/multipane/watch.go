package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/multipane"
	"pkt.systems/multipane/internal/appconfig"
	"pkt.systems/multipane/internal/eventbus"
	"pkt.systems/pslog"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Attach read-only and log session activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			tgt, err := resolveTarget(flags)
			if err != nil {
				return err
			}
			cfg, err := appconfig.Load(flags.configPath)
			if err != nil {
				return err
			}
			logger := pslog.Ctx(cmd.Context())

			bus := eventbus.New(logger)
			events, cancel := bus.Subscribe()
			defer cancel()
			go logEvents(logger, events)

			client := multipane.NewClient(multipane.ClientConfig{
				Session: tgt.session,
				Socket:  tgt.socket,
			})
			client.AddListener(multipane.BusListener{Bus: bus})
			if err := client.Connect(cmd.Context()); err != nil {
				return err
			}
			defer client.Disconnect()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
				state := client.State()
				switch state.Phase {
				case multipane.PhaseDisconnected:
					logger.Info("session closed")
					return nil
				case multipane.PhaseError:
					return fmt.Errorf("connection failed: %s", state.Err)
				}
				if cfg.Watch.Stats {
					if stats, ok := client.Stats(); ok {
						logger.Info("stats",
							"cpu", stats.FormatCPU(),
							"mem", stats.FormatMemory(),
							"load", stats.FormatLoad(),
							"disk", stats.FormatDisk())
					}
				}
				if cfg.Watch.Segments {
					for _, row := range client.PluginSegments() {
						for _, segment := range row {
							logger.Debug("segment", "text", segment.Text, "style", segment.Style)
						}
					}
				}
				if render := client.RenderState(); render != nil {
					if workspace := render.ActiveWorkspaceSnapshot(); workspace != nil {
						logger.Info("active workspace",
							"name", workspace.Name,
							"groups", len(workspace.Groups),
							"sync_panes", workspace.SyncPanes)
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "reporting interval")
	return cmd
}

func logEvents(logger pslog.Logger, events <-chan eventbus.Event) {
	for event := range events {
		switch event.Type {
		case eventbus.EventOutput:
			logger.Debug("output", "tab", event.TabID.String(), "bytes", len(event.Data), "full_screen", event.FullScreen)
		case eventbus.EventSession:
			logger.Info("session event", "event", event.Session)
		}
	}
}
