package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"codeberg.org/sigterm-de/boopkit/internal/engine"
	"codeberg.org/sigterm-de/boopkit/internal/logging"
)

// errTimedOut is the interrupt value used to stop a runaway script.
var errTimedOut = errors.New("script execution timed out")

// supervisor bounds each execution by a timeout and by ctx.
type supervisor struct {
	ctx     context.Context
	timeout time.Duration // zero disables the timer
}

// stopper delivers at most one interrupt, and none after close.
type stopper struct {
	mu      sync.Mutex
	closed  bool
	stopped bool
	ec      *engine.Context
}

func (s *stopper) interrupt(reason any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.stopped {
		return
	}
	s.stopped = true
	s.ec.Interrupt(reason)
}

// close fences off further interrupts and reports whether one was sent.
func (s *stopper) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.stopped
}

// execute runs ec once and reports the outcome. A timed-out or cancelled
// run is reported as an exception. No interrupt raised for this run can
// reach a later one.
func (s supervisor) execute(ec *engine.Context, input string, selection *string) runReport {
	ec.ClearInterrupt()
	st := &stopper{ec: ec}

	// ── Timeout timer ─────────────────────────────────────────────────────────
	if s.timeout > 0 {
		timer := time.AfterFunc(s.timeout, func() { st.interrupt(errTimedOut) })
		defer timer.Stop()
	}

	// ── Context cancellation ──────────────────────────────────────────────────
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-s.ctx.Done():
			st.interrupt(s.ctx.Err())
		case <-done:
		}
	}()

	r := execute(ec, input, selection)

	stopped := st.close()
	close(done)
	wg.Wait()
	ec.ClearInterrupt()

	if stopped && r.Exception != "" {
		if s.ctx.Err() != nil {
			r.Exception = fmt.Sprintf("script execution cancelled: %v", s.ctx.Err())
		} else {
			r.Exception = fmt.Sprintf("script execution timed out after %v", s.timeout)
		}
		logging.Log(logging.WARN, ec.Name(), r.Exception)
	}
	return r
}
