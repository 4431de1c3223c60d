package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner represents a spinning progress indicator.
type Spinner struct {
	frames  []string
	delay   time.Duration
	writer  io.Writer
	animate bool // only terminals are animated; other writers get the message once
	active  bool
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	message string
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner that writes message to writer.
// ctx allows for cancellation of the spinner goroutine.
func NewSpinner(ctx context.Context, writer io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  []string{"◜", "◠", "◝", "◞", "◡", "◟"},
		delay:   100 * time.Millisecond,
		writer:  writer,
		animate: isTerminal(writer),
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return // already running
	}
	s.active = true

	if !s.animate {
		fmt.Fprintln(s.writer, s.message)
		return
	}

	s.wg.Add(1)
	go s.run()
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return // not running
	}

	s.active = false
	s.cancel()
	s.mu.Unlock()

	if !s.animate {
		return
	}

	// wait for spinner goroutine to finish
	s.wg.Wait()
	fmt.Fprint(s.writer, clearLine)
}

// run is the main spinner loop.
func (s *Spinner) run() {
	defer s.wg.Done()

	frameIndex := 0
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			frame := s.frames[frameIndex%len(s.frames)]
			message := s.message
			s.mu.RUnlock()

			fmt.Fprintf(s.writer, "\r%s %s", frame, message)
			frameIndex++
		}
	}
}
