package api

import "context"

type ApprovalType string

const (
	ApprovalTypeLeave   ApprovalType = "leave"
	ApprovalTypeExpense ApprovalType = "expense"
)

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalRejected  ApprovalStatus = "rejected"
	ApprovalCancelled ApprovalStatus = "cancelled"
)

type LeaveType string

type ApprovalListItem struct {
	ID               string         `json:"id"`
	Type             ApprovalType   `json:"type"`
	Status           ApprovalStatus `json:"status"`
	RequesterID      string         `json:"requester_id"`
	CreatedAt        *string        `json:"created_at,omitempty"`
	CurrentStepOrder *int           `json:"current_step_order,omitempty"`
}

type ApprovalListResponse = Page[ApprovalListItem]

type ApprovalStepResponse struct {
	StepOrder  int            `json:"step_order"`
	ApproverID string         `json:"approver_id"`
	Status     ApprovalStatus `json:"status"`
	Comment    *string        `json:"comment,omitempty"`
	DecidedAt  *string        `json:"decided_at,omitempty"`
	CreatedAt  *string        `json:"created_at,omitempty"`
}

type ApprovalRequestResponse struct {
	ID               string                 `json:"id"`
	Type             ApprovalType           `json:"type"`
	Status           ApprovalStatus         `json:"status"`
	RequesterID      string                 `json:"requester_id"`
	Detail           map[string]any         `json:"detail"`
	Steps            []ApprovalStepResponse `json:"steps"`
	CurrentStepOrder *int                   `json:"current_step_order,omitempty"`
	CreatedAt        *string                `json:"created_at,omitempty"`
	UpdatedAt        *string                `json:"updated_at,omitempty"`
}

type CreateLeaveRequest struct {
	LeaveType LeaveType `json:"leave_type" validate:"required"`
	StartDate string    `json:"start_date" validate:"required"`
	EndDate   string    `json:"end_date" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
	ReceiptURL  *string `json:"receipt_url,omitempty" validate:"omitempty,url"`
}

type ApproveRejectRequest struct {
	Comment *string `json:"comment,omitempty"`
}

type ApprovalService struct {
	c *Client
}

func (s *ApprovalService) CreateLeave(ctx context.Context, req CreateLeaveRequest) (*ApprovalRequestResponse, error) {
	return s.create(ctx, "createLeaveRequest", PathApprovalsLeave, req)
}

func (s *ApprovalService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ApprovalRequestResponse, error) {
	return s.create(ctx, "createExpenseRequest", PathApprovalsExpense, req)
}

// Mine lists the caller's own requests, optionally filtered by status.
func (s *ApprovalService) Mine(ctx context.Context, page, size int, status ApprovalStatus) (*ApprovalListResponse, error) {
	query := pageQuery(page, size)
	if status != "" {
		query.Set("status", string(status))
	}
	return call[ApprovalListResponse](ctx, s.c, &request{
		operation: "getMyApprovalRequests",
		method:    "GET",
		url:       PathApprovalsMine,
		query:     query,
	})
}

// Pending lists requests waiting on the caller's decision.
func (s *ApprovalService) Pending(ctx context.Context, page, size int) (*ApprovalListResponse, error) {
	return call[ApprovalListResponse](ctx, s.c, &request{
		operation: "getPendingApprovals",
		method:    "GET",
		url:       PathApprovalsPending,
		query:     pageQuery(page, size),
	})
}

func (s *ApprovalService) Get(ctx context.Context, requestID string) (*ApprovalRequestResponse, error) {
	return s.act(ctx, "getApprovalDetail", "GET", PathApproval, requestID, nil)
}

func (s *ApprovalService) Approve(ctx context.Context, requestID string, comment *string) (*ApprovalRequestResponse, error) {
	return s.act(ctx, "approveRequest", "POST", PathApprovalApprove, requestID, ApproveRejectRequest{Comment: comment})
}

func (s *ApprovalService) Reject(ctx context.Context, requestID string, comment *string) (*ApprovalRequestResponse, error) {
	return s.act(ctx, "rejectRequest", "POST", PathApprovalReject, requestID, ApproveRejectRequest{Comment: comment})
}

func (s *ApprovalService) Cancel(ctx context.Context, requestID string) (*ApprovalRequestResponse, error) {
	return s.act(ctx, "cancelRequest", "POST", PathApprovalCancel, requestID, nil)
}

func (s *ApprovalService) create(ctx context.Context, operation, path string, body any) (*ApprovalRequestResponse, error) {
	return call[ApprovalRequestResponse](ctx, s.c, &request{
		operation: operation,
		method:    "POST",
		url:       path,
		body:      body,
		mediaType: MediaTypeJSON,
	})
}

func (s *ApprovalService) act(ctx context.Context, operation, method, path, requestID string, body any) (*ApprovalRequestResponse, error) {
	r := &request{
		operation: operation,
		method:    method,
		url:       path,
		path:      map[string]string{"request_id": requestID},
	}
	if body != nil {
		r.body = body
		r.mediaType = MediaTypeJSON
	}
	return call[ApprovalRequestResponse](ctx, s.c, r)
}
