// Package tasks polls the backend's background task endpoint until a task
// reaches a terminal state.
package tasks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/rs/zerolog"
)

const DefaultInterval = 1500 * time.Millisecond

// FetchErrorMessage is reported in State.Error when a status request fails.
const FetchErrorMessage = "unable to fetch task status"

// StatusClient is the subset of api.TaskService the poller needs.
type StatusClient interface {
	Status(ctx context.Context, taskID string) (*api.TaskStatusResponse, error)
	Cancel(ctx context.Context, taskID string) error
}

var _ StatusClient = (*api.TaskService)(nil)

// State is a snapshot of the task being polled.
type State struct {
	TaskID   string                `json:"task_id"`
	Status   api.TaskStatus        `json:"status"`
	Progress *api.TaskProgressInfo `json:"progress,omitempty"`
	Result   json.RawMessage       `json:"result,omitempty"`
	Error    string                `json:"error,omitempty"`
	Polls    int                   `json:"polls"`
}

// IsRunning reports a non-terminal status.
func (s State) IsRunning() bool {
	switch s.Status {
	case api.TaskPending, api.TaskStarted, api.TaskProgress:
		return true
	}
	return false
}

type Option func(*Poller)

func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

// WithOnUpdate registers a callback invoked with every state change. It runs on
// the polling goroutine and must not call back into the Poller.
func WithOnUpdate(fn func(State)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

// Poller tracks at most one task at a time. Starting a new task stops the
// previous one.
type Poller struct {
	client   StatusClient
	interval time.Duration
	logger   zerolog.Logger
	onUpdate func(State)

	mu     sync.Mutex
	state  State
	handle *Handle
}

func NewPoller(client StatusClient, opts ...Option) *Poller {
	p := &Poller{
		client:   client,
		interval: DefaultInterval,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start resets the state to PENDING, polls taskID immediately and then on every
// interval until a terminal status, a fetch error, Stop, or ctx cancellation.
func (p *Poller) Start(ctx context.Context, taskID string) (*Handle, error) {
	if taskID == "" {
		return nil, perrors.ErrTaskIDRequired
	}
	p.stopCurrent()

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		mu:     &p.mu,
	}

	p.mu.Lock()
	p.state = State{TaskID: taskID, Status: api.TaskPending}
	p.handle = h
	h.last = p.state
	p.mu.Unlock()

	p.logger.Debug().Str("task_id", taskID).Dur("interval", p.interval).Msg("polling task")
	go p.run(ctx, h, taskID)
	return h, nil
}

// Cancel asks the backend to revoke the current task, marks it REVOKED and stops
// polling. Backend errors are logged and otherwise ignored.
func (p *Poller) Cancel(ctx context.Context) error {
	p.mu.Lock()
	taskID := p.state.TaskID
	p.mu.Unlock()
	if taskID == "" {
		return perrors.ErrNoActiveTask
	}

	p.stopCurrent()
	if err := p.client.Cancel(ctx, taskID); err != nil {
		p.logger.Warn().Err(err).Str("task_id", taskID).Msg("cancel request failed")
	}

	p.mu.Lock()
	if p.state.TaskID != taskID {
		// restarted while the cancel request was in flight
		p.mu.Unlock()
		return nil
	}
	p.state.Status = api.TaskRevoked
	if p.handle != nil {
		p.handle.last = p.state
	}
	snapshot := p.state
	p.mu.Unlock()

	p.notify(snapshot)
	return nil
}

// Reset stops polling and clears every field, including the task id.
func (p *Poller) Reset() {
	p.stopCurrent()

	p.mu.Lock()
	p.state = State{}
	p.handle = nil
	p.mu.Unlock()
}

// State returns a snapshot of the current task.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) stopCurrent() {
	p.mu.Lock()
	h := p.handle
	p.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

func (p *Poller) run(ctx context.Context, h *Handle, taskID string) {
	defer close(h.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for p.poll(ctx, h, taskID) {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll fetches the status once and reports whether polling should continue.
func (p *Poller) poll(ctx context.Context, h *Handle, taskID string) bool {
	resp, err := p.client.Status(ctx, taskID)

	p.mu.Lock()
	if p.handle != h || ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}

	p.state.Polls++
	keepGoing := false
	switch {
	case err != nil:
		p.state.Error = FetchErrorMessage
		p.logger.Debug().Err(err).Str("task_id", taskID).Msg("task status request failed")
	case !resp.Status.Valid():
		p.state.Error = FetchErrorMessage
		p.logger.Warn().Str("task_id", taskID).Str("status", string(resp.Status)).Msg("unknown task status")
	default:
		p.state.Status = resp.Status
		p.state.Progress = resp.Progress
		p.state.Result = resp.Result
		p.state.Error = ""
		if resp.Error != nil {
			p.state.Error = *resp.Error
		}
		keepGoing = !resp.Status.IsTerminal()
	}
	h.last = p.state
	snapshot := p.state
	p.mu.Unlock()

	p.notify(snapshot)
	if !keepGoing {
		p.logger.Debug().Str("task_id", taskID).Str("status", string(snapshot.Status)).Int("polls", snapshot.Polls).Msg("polling stopped")
	}
	return keepGoing
}

func (p *Poller) notify(s State) {
	if p.onUpdate != nil {
		p.onUpdate(s)
	}
}
