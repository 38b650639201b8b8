package tasks

import (
	"context"
	"sync"
)

// Handle controls one polling run started by Poller.Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu   *sync.Mutex // the owning poller's lock, guards last
	last State
}

// Done is closed once the polling goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until polling ends and returns the last state this run produced.
func (h *Handle) Wait(ctx context.Context) (State, error) {
	select {
	case <-h.done:
		return h.State(), nil
	case <-ctx.Done():
		return h.State(), ctx.Err()
	}
}

// Stop ends polling and waits for the goroutine to exit. Any in-flight status
// request is aborted and its response discarded.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// State returns the last state this run produced.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}
