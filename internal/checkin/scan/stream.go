package scan

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrStreamClosed is returned when a stream has no more input to give.
var ErrStreamClosed = errors.New("scan: stream closed")

// Frame is one decoded read from a stream. Err is set when the capability
// reported a read failure instead of text.
type Frame struct {
	Text string
	Err  error
}

// Stream is a live source of decoded QR text, such as a camera.
// Stop must be safe to call when the stream was never started or is
// already stopped.
type Stream interface {
	Start(ctx context.Context) (<-chan Frame, error)
	Stop() error
}

// ImageDecoder extracts QR text from a still image, returning
// ErrNoCodeFound when the image holds no readable code.
type ImageDecoder interface {
	DecodeImage(ctx context.Context, data []byte) (string, error)
}

// LineStream turns newline separated input into frames. USB QR scanners in
// keyboard mode type the payload followed by Enter, so stdin works as a
// stream. Lines read while the stream is stopped are dropped.
type LineStream struct {
	r io.Reader

	mu      sync.Mutex
	out     chan Frame
	started bool
	closed  bool
	done    chan struct{}
}

func NewLineStream(r io.Reader) *LineStream {
	return &LineStream{r: r, done: make(chan struct{})}
}

func (s *LineStream) Start(ctx context.Context) (<-chan Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.out == nil {
		s.out = make(chan Frame, 1)
	}
	if !s.started {
		s.started = true
		go s.read()
	}
	return s.out, nil
}

func (s *LineStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out != nil {
		close(s.out)
		s.out = nil
	}
	return nil
}

// Done is closed once the underlying reader is exhausted.
func (s *LineStream) Done() <-chan struct{} { return s.done }

func (s *LineStream) read() {
	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s.emit(Frame{Text: line})
	}
	if err := sc.Err(); err != nil {
		s.emit(Frame{Err: err})
	}

	s.mu.Lock()
	s.closed = true
	if s.out != nil {
		close(s.out)
		s.out = nil
	}
	close(s.done)
	s.mu.Unlock()
}

func (s *LineStream) emit(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		return
	}
	select {
	case s.out <- f:
	default:
		// consumer is busy with the previous frame
	}
}
