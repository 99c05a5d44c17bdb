package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"p2pmessenger/internal/crypto"
	"p2pmessenger/internal/domain"
)

var (
	statusColor  = color.New(color.FgYellow)
	secretColor  = color.New(color.FgCyan, color.Bold)
	sentColor    = color.New(color.FgGreen, color.Bold)
	receiveColor = color.New(color.FgMagenta, color.Bold)
)

func warnLine(s string) string { return color.RedString("! %s", s) }

// render prints one session event. A status with Reset starts a new key
// exchange block.
func render(w io.Writer, ev domain.Event) {
	switch ev.Kind {
	case domain.EventHandshakeStatus:
		s := ev.Status
		if s.Reset {
			fmt.Fprintln(w, statusColor.Sprint("== key exchange =="))
		}
		fmt.Fprintln(w, statusColor.Sprint(s.Text))
		if s.Secret != nil {
			fmt.Fprintf(w, "%s %s\n", secretColor.Sprint("Shared secret:"), crypto.Fingerprint(s.Secret))
		}
	case domain.EventMessageSent:
		fmt.Fprintln(w, sentColor.Sprint("sent"))
		fmt.Fprintln(w, ev.Message.String())
	case domain.EventMessageReceived:
		fmt.Fprintln(w, receiveColor.Sprint("received"))
		fmt.Fprintln(w, ev.Message.String())
	}
}
