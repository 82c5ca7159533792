package interp

import (
	"errors"
	"io"
	"io/fs"
	"sync"
	"syscall"
)

// SharedReader is a pipe read endpoint that may be handed to a byte-pump
// task and to frame cleanup at the same time; the mutex arbitrates.
type SharedReader struct {
	mu     sync.Mutex
	r      io.Reader
	closed bool
}

// NewSharedReader wraps r for shared ownership.
func NewSharedReader(r io.Reader) *SharedReader {
	return &SharedReader{r: r}
}

// CopyTo pumps the whole stream into dst using buf.
func (s *SharedReader) CopyTo(dst io.Writer, buf []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.CopyBuffer(dst, s.r, buf)
}

// Close releases the endpoint. Closing unblocks a peer writer; repeated
// closes are no-ops.
func (s *SharedReader) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SharedWriter is the write-side counterpart of SharedReader.
type SharedWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

// NewSharedWriter wraps w for shared ownership.
func NewSharedWriter(w io.Writer) *SharedWriter {
	return &SharedWriter{w: w}
}

// CopyFrom pumps the whole stream from src using buf. Concurrent pumps
// into the same writer serialise on the mutex per copied chunk.
func (s *SharedWriter) CopyFrom(src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			s.mu.Lock()
			wn, werr := s.w.Write(buf[:n])
			s.mu.Unlock()
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// Shutdown closes the endpoint so a downstream reader observes EOF.
// Idempotent.
func (s *SharedWriter) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Stdin is the standard-input capability of an executor frame: either
// inherit the frame's base stream or read from a pipe.
type Stdin struct {
	pipe *SharedReader
}

// InheritStdin resolves to the frame's base stdin.
func InheritStdin() Stdin { return Stdin{} }

// PipeStdin reads from a shared pipe endpoint.
func PipeStdin(r *SharedReader) Stdin { return Stdin{pipe: r} }

// IsPipe reports whether the capability carries a pipe endpoint.
func (s Stdin) IsPipe() bool { return s.pipe != nil }

// Stdout is the standard-output (and standard-error) capability.
type Stdout struct {
	pipe *SharedWriter
}

// InheritStdout resolves to the frame's base stream.
func InheritStdout() Stdout { return Stdout{} }

// PipeStdout writes into a shared pipe endpoint.
func PipeStdout(w *SharedWriter) Stdout { return Stdout{pipe: w} }

// IsPipe reports whether the capability carries a pipe endpoint.
func (s Stdout) IsPipe() bool { return s.pipe != nil }

// isBenignPipeError reports write/read failures that just mean the peer
// went away first; shells treat those as EOF, not as I/O failures.
func isBenignPipeError(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, fs.ErrClosed)
}
