package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2pmessenger/internal/domain"
	"p2pmessenger/internal/session"
)

type fakePeer struct {
	mu     sync.Mutex
	sent   []string
	closed bool
	events session.EventChannel
	err    error
}

func (p *fakePeer) Send(_ context.Context, s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, s)
	p.events.OnMessageSent(domain.Message{Ciphertext: "Y3Q=", Plaintext: s})
	return nil
}

func (p *fakePeer) State() domain.State { return domain.StateEstablished }

func (p *fakePeer) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.events.OnHandshakeStatus(domain.HandshakeStatus{Text: "Connection closed"})
	return nil
}

func init() { color.NoColor = true }

func TestChat_SendsLinesUntilEOF(t *testing.T) {
	events := session.NewEventChannel(16)
	p := &fakePeer{events: events}
	var out bytes.Buffer

	err := chat(context.Background(), p, events, nil, strings.NewReader("hello\n\r\nworld\r\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "world"}, p.sent)
	assert.True(t, p.closed)
	assert.Contains(t, out.String(), "Connection closed")
}

func TestChat_NotConnectedIsNotFatal(t *testing.T) {
	events := session.NewEventChannel(16)
	p := &fakePeer{events: events, err: session.ErrNotConnected}
	var out bytes.Buffer

	require.NoError(t, chat(context.Background(), p, events, nil, strings.NewReader("early\n"), &out))
	assert.Contains(t, out.String(), "no peer connected")
}

type endedConn struct {
	done chan struct{}
	err  error
}

func (e endedConn) Done() <-chan struct{} { return e.done }
func (e endedConn) Err() error { return e.err }

func TestChat_EndsWhenPeerDone(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"clean":  {want: "connection ended"},
		"failed": {err: errors.New("rekey not answered within 10s"), want: "connection ended: rekey not answered within 10s"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			events := session.NewEventChannel(16)
			p := &fakePeer{events: events}
			ended := endedConn{done: make(chan struct{}), err: tc.err}
			close(ended.done)

			// Stdin that never ends.
			r, w := io.Pipe()
			defer w.Close()

			var out bytes.Buffer
			require.NoError(t, chat(context.Background(), p, events, ended, r, &out))
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestRender(t *testing.T) {
	var out bytes.Buffer
	render(&out, domain.Event{Kind: domain.EventHandshakeStatus, Status: domain.HandshakeStatus{Text: "Sending listener public key: AAAA", Reset: true}})
	render(&out, domain.Event{Kind: domain.EventHandshakeStatus, Status: domain.HandshakeStatus{Text: "Generated shared secret", Secret: []byte{0xab, 0x01}}})
	render(&out, domain.Event{Kind: domain.EventMessageReceived, Message: domain.Message{Ciphertext: "Y3Q=", Plaintext: "hi"}})

	want := "== key exchange ==\n" +
		"Sending listener public key: AAAA\n" +
		"Generated shared secret\n" +
		"Shared secret: AB01\n" +
		"received\n" +
		"\t[ CIPHERTEXT ] Y3Q=\n\t[ PLAINTEXT ] hi\n"
	assert.Equal(t, want, out.String())
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p2p.toml")

	run := func(args ...string) (string, error) {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append(args, "--config", path))
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = run("config", "init")
	assert.Error(t, err, "init must not overwrite without --force")

	_, err = run("config", "init", "--force")
	require.NoError(t, err)

	out, err = run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `listen_addr = ":12345"`)
	assert.Contains(t, out, `rekey_interval = "1m0s"`)
}
