package transport

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// Stdio is newline-delimited JSON over a pair of byte streams — the
// current process's stdin/stdout, or a spawned child's. A line is
// stripped of its trailing CR/LF before delivery. EOF on read is an
// orderly close. Adapted from the teacher's brace-counting framer
// (_digital-io/pkg/transport/stdio.go); generalized to the simpler
// newline-delimited framing the spec calls for.
type Stdio struct {
	reader *bufio.Reader
	writer io.Writer

	mu        sync.Mutex
	closed    bool
	closeFunc func() error
}

// NewStdio builds a Stdio transport over the given reader/writer pair.
// closeFn may be nil if the underlying streams need no explicit close
// (e.g. os.Stdin/os.Stdout).
func NewStdio(r io.Reader, w io.Writer, closeFn func() error) *Stdio {
	return &Stdio{
		reader:    bufio.NewReader(r),
		writer:    w,
		closeFunc: closeFn,
	}
}

// NewProcessStdio builds a Stdio transport over the current process's
// stdin/stdout — the default transport an MCP server runs over.
func NewProcessStdio() *Stdio {
	return NewStdio(os.Stdin, bufio.NewWriter(os.Stdout), nil)
}

func (t *Stdio) Send(ctx context.Context, message []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return mcperrors.New(mcperrors.KindClosed, "stdio transport closed")
	}

	line := append(append([]byte{}, message...), '\n')
	if _, err := t.writer.Write(line); err != nil {
		return mcperrors.Wrap(mcperrors.KindSendFailed, "write to stdio", err)
	}
	if f, ok := t.writer.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return mcperrors.Wrap(mcperrors.KindSendFailed, "flush stdio", err)
		}
	}
	return nil
}

func (t *Stdio) Receive(ctx context.Context) ([]byte, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if strings.TrimSpace(line) == "" {
				logger.Debug("stdio EOF, orderly close")
				return nil, nil
			}
			// last line had no trailing newline; deliver it, then
			// the next Receive call observes EOF with nothing pending.
			return []byte(strings.TrimRight(line, "\r\n")), nil
		}
		return nil, mcperrors.Wrap(mcperrors.KindReceiveFailed, "read from stdio", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func (t *Stdio) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.closeFunc != nil {
		return t.closeFunc()
	}
	return nil
}

func (t *Stdio) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}

func (t *Stdio) Type() string { return "stdio" }
