package api

import "context"

type EmployeeListItem struct {
	ID         int               `json:"id"`
	IDNo       string            `json:"idno"`
	Department Department        `json:"department"`
	UserID     *string           `json:"user_id,omitempty"`
	Role       *RoleInfoResponse `json:"role,omitempty"`
	CreatedAt  *string           `json:"created_at,omitempty"`
}

type EmployeeListResponse = Page[EmployeeListItem]

type AssignEmployeeRequest struct {
	UserID     string     `json:"user_id" validate:"required,uuid"`
	IDNo       string     `json:"idno" validate:"required"`
	Department Department `json:"department" validate:"required"`
	RoleID     int        `json:"role_id" validate:"required,gt=0"`
}

type AssignEmployeeResponse = EmployeeListItem

type CsvUploadResultItem struct {
	Row     int    `json:"row"`
	IDNo    string `json:"idno"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CsvUploadResponse struct {
	Total        int                   `json:"total"`
	SuccessCount int                   `json:"success_count"`
	FailureCount int                   `json:"failure_count"`
	Results      []CsvUploadResultItem `json:"results"`
}

type EmployeeService struct {
	c *Client
}

func (s *EmployeeService) List(ctx context.Context, page, size int) (*EmployeeListResponse, error) {
	return call[EmployeeListResponse](ctx, s.c, &request{
		operation: "listEmployees",
		method:    "GET",
		url:       PathEmployees,
		query:     pageQuery(page, size),
	})
}

// Assign links an existing user to an employee record.
func (s *EmployeeService) Assign(ctx context.Context, req AssignEmployeeRequest) (*AssignEmployeeResponse, error) {
	return call[AssignEmployeeResponse](ctx, s.c, &request{
		operation: "assignUserAsEmployee",
		method:    "POST",
		url:       PathEmployeesAssign,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *EmployeeService) UploadCSV(ctx context.Context, file Upload) (*CsvUploadResponse, error) {
	if file.ContentType == "" {
		file.ContentType = "text/csv"
	}
	return call[CsvUploadResponse](ctx, s.c, &request{
		operation: "uploadEmployeesCsv",
		method:    "POST",
		url:       PathEmployeesUploadCSV,
		files:     map[string]Upload{"file": file},
		mediaType: MediaTypeMultipart,
	})
}
