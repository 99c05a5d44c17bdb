package wire

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"p2pmessenger/internal/crypto"
)

const (
	// KeyBlockSize is the size of a raw public key block.
	KeyBlockSize = crypto.KeyBlockSize
	// MaxLineSize bounds a single line, terminator excluded.
	MaxLineSize = 1 << 20

	rekeyPrefix = "!KEY "
)

var (
	// ErrShortKeyBlock is returned when the stream ends inside a key block.
	ErrShortKeyBlock = errors.New("short public key block")
	// ErrMalformedFrame is returned for a line that does not decode. The
	// line has been consumed and the stream is still usable.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrFrameTooLarge is returned for a line longer than MaxLineSize. The
	// stream is no longer in sync after this error.
	ErrFrameTooLarge = errors.New("frame exceeds maximum line size")
)

// FrameKind tells message lines from rekey lines.
type FrameKind int

const (
	FrameMessage FrameKind = iota + 1
	FrameRekey
)

// String returns a short name for the frame kind.
func (k FrameKind) String() string {
	switch k {
	case FrameMessage:
		return "message"
	case FrameRekey:
		return "rekey"
	default:
		return "unknown"
	}
}

// Frame is one decoded line.
type Frame struct {
	Kind FrameKind
	// Payload is nonce‖ciphertext for FrameMessage and the key block for
	// FrameRekey.
	Payload []byte
	// Text is the base64 body as it appeared on the wire.
	Text string
}

// Reader reads key blocks and lines from one buffered stream. It is not safe
// for concurrent use.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r. Key blocks and lines must be read through the same
// Reader, since both draw from its buffer.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadKeyBlock reads exactly KeyBlockSize bytes.
func (r *Reader) ReadKeyBlock() ([]byte, error) {
	block := make([]byte, KeyBlockSize)
	n, err := io.ReadFull(r.br, block)
	switch {
	case err == nil:
		return block, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: read %d of %d bytes: %w", ErrShortKeyBlock, n, KeyBlockSize, err)
	default:
		return nil, fmt.Errorf("read key block: %w", err)
	}
}

// ReadFrame reads and decodes the next line.
func (r *Reader) ReadFrame() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	return ParseLine(line)
}

func (r *Reader) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.br.ReadSlice('\n')
		if len(line)+len(chunk) > MaxLineSize+2 {
			return nil, ErrFrameTooLarge
		}
		line = append(line, chunk...)
		switch {
		case err == nil:
			line = bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(line) > 0:
			return nil, io.ErrUnexpectedEOF
		default:
			return nil, err
		}
	}
}

// ParseLine decodes one line without its terminator.
func ParseLine(line []byte) (Frame, error) {
	kind := FrameMessage
	body := line
	if bytes.HasPrefix(line, []byte(rekeyPrefix)) {
		kind = FrameRekey
		body = line[len(rekeyPrefix):]
	}
	if len(body) == 0 {
		return Frame{}, fmt.Errorf("%w: empty %s line", ErrMalformedFrame, kind)
	}
	payload, err := base64.StdEncoding.DecodeString(string(body))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return Frame{Kind: kind, Payload: payload, Text: string(body)}, nil
}

// WriteKeyBlock writes a raw key block.
func WriteKeyBlock(w io.Writer, block []byte) error {
	if len(block) != KeyBlockSize {
		return fmt.Errorf("key block is %d bytes, want %d", len(block), KeyBlockSize)
	}
	_, err := w.Write(block)
	return err
}

// EncodeMessage returns the base64 text of a message payload and the full
// line to write.
func EncodeMessage(payload []byte) (text string, line []byte) {
	text = base64.StdEncoding.EncodeToString(payload)
	return text, append([]byte(text), '\n')
}

// EncodeRekey returns the line carrying a rekey key block.
func EncodeRekey(block []byte) []byte {
	text := base64.StdEncoding.EncodeToString(block)
	line := make([]byte, 0, len(rekeyPrefix)+len(text)+1)
	line = append(line, rekeyPrefix...)
	line = append(line, text...)
	return append(line, '\n')
}
