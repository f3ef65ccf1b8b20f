package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Computing layout...")
	s.Start()
	time.Sleep(4 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Computing layout...") {
		t.Errorf("spinner output = %q, want message", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner output = %q, want cleared line", got)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinner(ctx, &syncBuffer{}, "Rendering...")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("Cancelled() = false, want true")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Stopping...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Idle")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a spinner that was never started")
	}
}
