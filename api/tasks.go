package api

import (
	"context"
	"encoding/json"
)

// TaskStatus is the state reported by the background task endpoint.
type TaskStatus string

const (
	TaskPending  TaskStatus = "PENDING"
	TaskStarted  TaskStatus = "STARTED"
	TaskProgress TaskStatus = "PROGRESS"
	TaskSuccess  TaskStatus = "SUCCESS"
	TaskFailure  TaskStatus = "FAILURE"
	TaskRevoked  TaskStatus = "REVOKED"
)

// IsTerminal reports whether no further polling should happen.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskPending, TaskStarted, TaskProgress:
		return false
	default:
		return true
	}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskStarted, TaskProgress, TaskSuccess, TaskFailure, TaskRevoked:
		return true
	}
	return false
}

// TaskProgressInfo is reported while a task is in PROGRESS.
type TaskProgressInfo struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Message *string `json:"message,omitempty"`
}

// Percent returns completion in [0,100], or 0 when Total is unknown.
func (p TaskProgressInfo) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	pct := float64(p.Current) / float64(p.Total) * 100
	return min(max(pct, 0), 100)
}

type TaskStatusResponse struct {
	TaskID   string            `json:"task_id"`
	Status   TaskStatus        `json:"status"`
	Progress *TaskProgressInfo `json:"progress,omitempty"`
	Result   json.RawMessage   `json:"result,omitempty"`
	Error    *string           `json:"error,omitempty"`
}

type TaskService struct {
	c *Client
}

func (s *TaskService) Status(ctx context.Context, taskID string) (*TaskStatusResponse, error) {
	return call[TaskStatusResponse](ctx, s.c, &request{
		operation: "getTaskStatus",
		method:    "GET",
		url:       PathTaskStatus,
		path:      map[string]string{"task_id": taskID},
	})
}

func (s *TaskService) Cancel(ctx context.Context, taskID string) error {
	return s.c.send(ctx, &request{
		operation: "cancelTask",
		method:    "DELETE",
		url:       PathTaskCancel,
		path:      map[string]string{"task_id": taskID},
	}, nil)
}

// Result fetches the raw result of a finished task.
func (s *TaskService) Result(ctx context.Context, taskID string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.c.send(ctx, &request{
		operation: "getTaskResult",
		method:    "GET",
		url:       PathTaskResult,
		path:      map[string]string{"task_id": taskID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
