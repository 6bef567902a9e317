package llm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrDownstreamClosed marks a relay aborted because the destination stopped
// accepting bytes (the caller disconnected). Reading from the source stops
// immediately; nothing about the source itself failed.
var ErrDownstreamClosed = errors.New("downstream closed")

// Flusher is implemented by writers that can push buffered bytes to the
// client immediately, such as *bufio.Writer over a chunked response.
type Flusher interface {
	Flush() error
}

// RelayLines copies src to dst preserving line framing. Bytes accumulate in a
// buffer; every complete line is forwarded the moment its newline arrives,
// terminated by exactly one '\n' (a trailing '\r' is dropped), and dst is
// flushed after each line so nothing lingers in intermediate buffers. When
// src ends, a leftover unterminated line is delivered as a final line. Lines
// are never merged or reordered.
//
// Returns nil on clean EOF, an error wrapping ErrDownstreamClosed when dst
// rejects a write, and the read error when src fails mid-stream; the caller
// decides how to signal that truncation downstream.
func RelayLines(dst io.Writer, src io.Reader) error {
	flush := func() error { return nil }
	if f, ok := dst.(Flusher); ok {
		flush = f.Flush
	}

	emit := func(line []byte) error {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if _, err := dst.Write(line); err != nil {
			return fmt.Errorf("%w: %v", ErrDownstreamClosed, err)
		}
		if _, err := dst.Write([]byte("\n")); err != nil {
			return fmt.Errorf("%w: %v", ErrDownstreamClosed, err)
		}
		if err := flush(); err != nil {
			return fmt.Errorf("%w: %v", ErrDownstreamClosed, err)
		}
		return nil
	}

	var pending []byte
	chunk := make([]byte, 4096)
	for {
		n, readErr := src.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				if err := emit(pending[:i]); err != nil {
					return err
				}
				pending = pending[i+1:]
			}
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			if len(pending) > 0 {
				return emit(pending)
			}
			return nil
		}
		return fmt.Errorf("read stream: %w", readErr)
	}
}
