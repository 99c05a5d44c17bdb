package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/session"
)

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// errInputClosed ends the chat when stdin reaches EOF.
var errInputClosed = errors.New("input closed")

// endedPeer is a peer whose connection can end on its own, like a Dialer's.
type endedPeer interface {
	Done() <-chan struct{}
	Err() error
}

// chat runs the interactive loop until ctx is cancelled, input ends or the
// connection of ended terminates. ended may be nil. Each non-empty input line
// is sent as one message. The peer is closed before chat returns.
func chat(ctx context.Context, p domain.Peer, events <-chan domain.Event, ended endedPeer, in io.Reader, out io.Writer) error {
	var peerDone <-chan struct{}
	if ended != nil {
		peerDone = ended.Done()
	}
	out = &lockedWriter{w: out}
	lines := make(chan string)
	go readLines(in, lines)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-peerDone:
				if err := ended.Err(); err != nil {
					return fmt.Errorf("connection ended: %w", err)
				}
				return errors.New("connection ended")
			case ev := <-events:
				render(out, ev)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return errInputClosed
				}
				line = strings.TrimRight(line, "\r")
				if line == "" {
					continue
				}
				if err := p.Send(ctx, line); err != nil {
					if errors.Is(err, session.ErrNotConnected) {
						fmt.Fprintln(out, warnLine("no peer connected, message not sent"))
						continue
					}
					return err
				}
			}
		}
	})

	err := g.Wait()
	closeAndDrain(p, events, out)
	switch {
	case errors.Is(err, errInputClosed):
		return nil
	case err != nil && ended != nil:
		fmt.Fprintln(out, warnLine(err.Error()))
		return nil
	default:
		return err
	}
}

// readLines forwards lines from in until EOF, then closes out. It may block
// on in after chat has returned, which is harmless for a process-wide stdin.
func readLines(in io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		out <- sc.Text()
	}
}

// closeAndDrain closes p while still rendering events, since closing reports
// a final status.
func closeAndDrain(p domain.Peer, events <-chan domain.Event, out io.Writer) {
	closed := make(chan struct{})
	go func() {
		_ = p.Close()
		close(closed)
	}()
	for {
		select {
		case ev := <-events:
			render(out, ev)
		case <-closed:
			drain(out, events)
			return
		}
	}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// drain renders events that are already queued.
func drain(out io.Writer, events <-chan domain.Event) {
	for {
		select {
		case ev := <-events:
			render(out, ev)
		default:
			return
		}
	}
}
