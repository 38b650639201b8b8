package tasks_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/jrsteele09/go-portal-client/internal/fakeportal"
	"github.com/jrsteele09/go-portal-client/internal/utils"
	"github.com/jrsteele09/go-portal-client/tasks"
	"github.com/stretchr/testify/require"
)

const testInterval = 5 * time.Millisecond

type step struct {
	resp *api.TaskStatusResponse
	err  error
}

// scriptedClient answers status requests from a fixed script; the last step repeats.
type scriptedClient struct {
	mu        sync.Mutex
	steps     []step
	calls     int
	cancelErr error
	cancelled []string
}

func newScriptedClient(steps ...step) *scriptedClient {
	return &scriptedClient{steps: steps}
}

func status(s api.TaskStatus) step {
	return step{resp: &api.TaskStatusResponse{Status: s}}
}

func (c *scriptedClient) Status(ctx context.Context, taskID string) (*api.TaskStatusResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.steps[min(c.calls, len(c.steps)-1)]
	c.calls++
	if s.err != nil {
		return nil, s.err
	}
	resp := *s.resp
	resp.TaskID = taskID
	return &resp, nil
}

func (c *scriptedClient) Cancel(ctx context.Context, taskID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelled = append(c.cancelled, taskID)
	return c.cancelErr
}

func (c *scriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func waitDone(t *testing.T, h *tasks.Handle) tasks.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := h.Wait(ctx)
	require.NoError(t, err)
	return state
}

func TestPoller_StopsOnTerminalStatus(t *testing.T) {
	client := newScriptedClient(status(api.TaskPending), status(api.TaskProgress), status(api.TaskSuccess))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)

	state := waitDone(t, h)
	require.Equal(t, api.TaskSuccess, state.Status)
	require.Equal(t, 3, state.Polls)
	require.Equal(t, 3, client.Calls())

	time.Sleep(5 * testInterval)
	require.Equal(t, 3, client.Calls(), "no polls after a terminal status")
	require.False(t, p.State().IsRunning())
}

func TestPoller_FetchErrorStopsImmediately(t *testing.T) {
	client := newScriptedClient(step{err: errors.New("connection refused")}, status(api.TaskSuccess))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)

	state := waitDone(t, h)
	require.Equal(t, 1, state.Polls)
	require.NotEmpty(t, state.Error)
	require.Equal(t, tasks.FetchErrorMessage, state.Error)
	require.Equal(t, api.TaskPending, state.Status)

	time.Sleep(5 * testInterval)
	require.Equal(t, 1, client.Calls())
}

func TestPoller_UnknownStatusStops(t *testing.T) {
	client := newScriptedClient(status("RETRY"), status(api.TaskSuccess))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)

	state := waitDone(t, h)
	require.Equal(t, 1, client.Calls())
	require.Equal(t, tasks.FetchErrorMessage, state.Error)
}

func TestPoller_CopiesProgressResultAndError(t *testing.T) {
	client := newScriptedClient(
		step{resp: &api.TaskStatusResponse{Status: api.TaskProgress, Progress: &api.TaskProgressInfo{Current: 2, Total: 10, Message: utils.Ptr("importing")}}},
		step{resp: &api.TaskStatusResponse{Status: api.TaskFailure, Error: utils.Ptr("row 7 invalid")}},
	)

	var mu sync.Mutex
	var updates []tasks.State
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval), tasks.WithOnUpdate(func(s tasks.State) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, s)
	}))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)
	state := waitDone(t, h)

	require.Equal(t, api.TaskFailure, state.Status)
	require.Nil(t, state.Progress)
	require.Equal(t, "row 7 invalid", state.Error)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 2)
	require.Equal(t, api.TaskProgress, updates[0].Status)
	require.Equal(t, 20.0, updates[0].Progress.Percent())
	require.Equal(t, "importing", *updates[0].Progress.Message)
	require.Empty(t, updates[0].Error)
}

func TestPoller_CancelAlwaysRevokes(t *testing.T) {
	for name, cancelErr := range map[string]error{
		"Backend accepts": nil,
		"Backend fails":   errors.New("502 bad gateway"),
	} {
		t.Run(name, func(t *testing.T) {
			client := newScriptedClient(status(api.TaskStarted))
			client.cancelErr = cancelErr
			p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

			h, err := p.Start(context.Background(), "task-1")
			require.NoError(t, err)
			require.Eventually(t, func() bool { return client.Calls() >= 2 }, time.Second, testInterval)

			require.NoError(t, p.Cancel(context.Background()))
			require.Equal(t, api.TaskRevoked, p.State().Status)
			require.Equal(t, "task-1", p.State().TaskID)
			require.Equal(t, []string{"task-1"}, client.cancelled)

			select {
			case <-h.Done():
			default:
				t.Fatal("polling still running after Cancel")
			}
			require.Equal(t, api.TaskRevoked, h.State().Status)

			calls := client.Calls()
			time.Sleep(5 * testInterval)
			require.Equal(t, calls, client.Calls())
		})
	}
}

func TestPoller_CancelWithoutTask(t *testing.T) {
	client := newScriptedClient(status(api.TaskSuccess))
	p := tasks.NewPoller(client)

	require.ErrorIs(t, p.Cancel(context.Background()), perrors.ErrNoActiveTask)
	require.Empty(t, client.cancelled)
}

func TestPoller_Reset(t *testing.T) {
	client := newScriptedClient(status(api.TaskProgress))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return client.Calls() >= 1 }, time.Second, testInterval)

	p.Reset()
	require.Equal(t, tasks.State{}, p.State())
	<-h.Done()

	require.ErrorIs(t, p.Cancel(context.Background()), perrors.ErrNoActiveTask)
}

func TestPoller_StartReplacesRunningTask(t *testing.T) {
	client := newScriptedClient(status(api.TaskProgress))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))
	ctx := context.Background()

	first, err := p.Start(ctx, "task-1")
	require.NoError(t, err)
	second, err := p.Start(ctx, "task-2")
	require.NoError(t, err)
	defer second.Stop()

	select {
	case <-first.Done():
	default:
		t.Fatal("first run not stopped")
	}
	require.Eventually(t, func() bool { return p.State().Polls >= 1 }, time.Second, testInterval)
	require.Equal(t, "task-2", p.State().TaskID)
	require.Equal(t, "task-1", first.State().TaskID)
}

func TestPoller_ContextCancellationEndsPolling(t *testing.T) {
	client := newScriptedClient(status(api.TaskPending))
	p := tasks.NewPoller(client, tasks.WithInterval(testInterval))

	ctx, cancel := context.WithCancel(context.Background())
	h, err := p.Start(ctx, "task-1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return client.Calls() >= 1 }, time.Second, testInterval)

	cancel()
	waitDone(t, h)

	calls := client.Calls()
	time.Sleep(5 * testInterval)
	require.Equal(t, calls, client.Calls())
}

func TestPoller_WaitHonoursContext(t *testing.T) {
	client := newScriptedClient(status(api.TaskPending))
	p := tasks.NewPoller(client, tasks.WithInterval(time.Hour))

	h, err := p.Start(context.Background(), "task-1")
	require.NoError(t, err)
	defer h.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoller_RequiresTaskID(t *testing.T) {
	p := tasks.NewPoller(newScriptedClient(status(api.TaskSuccess)))
	_, err := p.Start(context.Background(), "")
	require.ErrorIs(t, err, perrors.ErrTaskIDRequired)
}

func TestPoller_AgainstBackend(t *testing.T) {
	backend := fakeportal.New()
	backend.AddUser(fakeportal.User{UID: "jdoe", Password: "secret123"})
	backend.ScriptTask("import-1",
		api.TaskStatusResponse{Status: api.TaskPending},
		api.TaskStatusResponse{Status: api.TaskProgress, Progress: &api.TaskProgressInfo{Current: 5, Total: 10}},
		api.TaskStatusResponse{Status: api.TaskSuccess, Result: []byte(`{"imported":10}`)},
	)
	server := httptest.NewServer(backend)
	defer server.Close()

	client, err := api.New(server.URL, api.WithTokenSource(staticToken(backend.IssueToken("jdoe"))))
	require.NoError(t, err)

	p := tasks.NewPoller(client.Tasks, tasks.WithInterval(testInterval))
	h, err := p.Start(context.Background(), "import-1")
	require.NoError(t, err)

	state := waitDone(t, h)
	require.Equal(t, api.TaskSuccess, state.Status)
	require.JSONEq(t, `{"imported":10}`, string(state.Result))
	require.Equal(t, 3, backend.TaskPolls("import-1"))
}

func TestPoller_CancelAgainstBackend(t *testing.T) {
	backend := fakeportal.New()
	backend.AddUser(fakeportal.User{UID: "jdoe", Password: "secret123"})
	backend.ScriptTask("import-1", api.TaskStatusResponse{Status: api.TaskStarted})
	backend.FailRoute("DELETE /tasks/cancel/import-1", 500)
	server := httptest.NewServer(backend)
	defer server.Close()

	client, err := api.New(server.URL, api.WithTokenSource(staticToken(backend.IssueToken("jdoe"))))
	require.NoError(t, err)

	p := tasks.NewPoller(client.Tasks, tasks.WithInterval(testInterval))
	_, err = p.Start(context.Background(), "import-1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return backend.TaskPolls("import-1") >= 1 }, time.Second, testInterval)

	require.NoError(t, p.Cancel(context.Background()))
	require.Equal(t, api.TaskRevoked, p.State().Status)
	require.False(t, backend.Cancelled("import-1"))
}
