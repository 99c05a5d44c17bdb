package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"p2pmessenger/internal/session"
)

func dialCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dial [address]",
		Aliases: []string{"bob"},
		Short:   "Connect to a listening peer and chat",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := appCtx.Config.DialAddr
			if len(args) == 1 {
				addr = args[0]
			}

			events := session.NewEventChannel(64)
			d, err := appCtx.NewDialer(events)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// Connect reports through events before it returns, so render
			// them while it runs.
			out := cmd.OutOrStdout()
			connected := make(chan error, 1)
			go func() { connected <- d.Connect(ctx, addr) }()
			for connecting := true; connecting; {
				select {
				case ev := <-events:
					render(out, ev)
				case err := <-connected:
					if err != nil {
						drain(out, events)
						return fmt.Errorf("connect to %s: %w", addr, err)
					}
					connecting = false
				}
			}
			return chat(ctx, d, events, d, cmd.InOrStdin(), out)
		},
	}
}
