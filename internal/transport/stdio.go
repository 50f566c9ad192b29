// Package transport provides the two server bindings: a line-framed stdio
// stream and an HTTP endpoint. Both feed raw message bytes to the same
// rpc.Handler, so a given request produces the same response bytes on
// either binding.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/TraceMachina/nativelink-mcp-server/internal/rpc"
)

// maxLineSize bounds a single stdio message (4 MiB).
const maxLineSize = 4 << 20

// Stdio serves JSON-RPC over a persistent stream, one JSON object per
// line in each direction.
type Stdio struct {
	handler *rpc.Handler
	in      io.Reader
	out     io.Writer
	log     *log.Logger
}

// NewStdio creates a stream binding over in/out (os.Stdin/os.Stdout in
// production; buffers in tests).
func NewStdio(handler *rpc.Handler, in io.Reader, out io.Writer, logger *log.Logger) *Stdio {
	return &Stdio{handler: handler, in: in, out: out, log: logger}
}

// Serve reads requests line by line until EOF or context cancellation.
// A malformed line is answered with a parse error and the loop continues;
// the channel is never torn down by bad input. Requests arriving after
// shutdown begins are not answered.
//
// The scanner runs in its own goroutine so that cancellation takes effect
// even while the stream is idle: Serve must not stay blocked in a read
// when the process is asked to shut down. After cancellation the reader
// goroutine may remain blocked in Scan until the underlying stream
// closes; process teardown takes care of that.
func (s *Stdio) Serve(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.Clone(bytes.TrimSpace(scanner.Bytes()))
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		// Checked ahead of the blocking select so that a cancellation
		// racing a pending line always wins.
		select {
		case <-ctx.Done():
			s.log.Info("stdio transport shutting down")
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			s.log.Info("stdio transport shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading requests: %w", err)
				}
				s.log.Info("stdio transport closed (EOF)")
				return nil
			}
			resp := s.handler.HandleMessage(ctx, line)
			if resp == nil {
				continue
			}
			if err := s.writeLine(resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

func (s *Stdio) writeLine(resp []byte) error {
	if _, err := s.out.Write(resp); err != nil {
		return err
	}
	_, err := s.out.Write([]byte{'\n'})
	return err
}
