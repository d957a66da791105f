package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner displays an animated spinner with a message while a scan or
// network fetch is in flight. On a non-TTY writer the message is printed
// once and the animation goroutine never starts.
type Spinner struct {
	message string
	running bool
	chars   []string
	mu      sync.Mutex
	writer  io.Writer
	ticker  *time.Ticker
	done    chan struct{}
}

// NewSpinner creates a new spinner with a message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintln(s.writer, s.message)
		s.mu.Unlock()
		return
	}

	s.ticker = time.NewTicker(100 * time.Millisecond)
	s.mu.Unlock()

	go func() {
		frame := 0
		for {
			select {
			case <-s.ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.writer, "\r%s %s", s.chars[frame%len(s.chars)], s.message)
				s.mu.Unlock()
				frame++
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the spinner and clears its line.
func (s *Spinner) Stop() {
	s.stop("")
}

// StopWithMessage halts the spinner and replaces its line with a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.stop(message)
}

func (s *Spinner) stop(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
		fmt.Fprintf(s.writer, "\r%s\r", spaces(len(s.message)+2))
	}
	if message != "" {
		fmt.Fprintln(s.writer, message)
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
