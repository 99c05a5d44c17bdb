package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"p2pmessenger/internal/session"
)

func listenCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:     "listen",
		Aliases: []string{"alice"},
		Short:   "Wait for a peer and chat",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				appCtx.Config.ListenAddr = fmt.Sprintf(":%d", port)
			}
			events := session.NewEventChannel(64)
			l, err := appCtx.NewListener(events)
			if err != nil {
				return err
			}
			if err := l.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", l.Addr())

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return chat(ctx, l, events, nil, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides listen_addr)")
	return cmd
}
