package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner animates a message on a terminal line while a long operation
// runs. It stops on Stop or when its context ends, and always clears the
// line it drew on.
type Spinner struct {
	message string
	out     io.Writer
	parent  context.Context

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once
	mu      sync.Mutex
}

func newSpinner(ctx context.Context, out io.Writer, message string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		out:     out,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start draws the first frame after one interval and keeps animating in a
// goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	defer s.clear()

	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(string(frame)), StyleDim.Render(s.message))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", len(s.message)+4)+"\r")
}

// Stop ends the animation and waits until the line is cleared. Calling
// Stop on a spinner that was never started returns at once.
func (s *Spinner) Stop() {
	s.stop.Do(s.cancel)
	select {
	case <-s.stopped:
	case <-time.After(spinnerInterval * 4):
	}
}

// Cancelled reports whether the caller's context ended, as opposed to the
// spinner having been stopped.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
