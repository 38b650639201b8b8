package api

// Timestamps are carried as the ISO-8601 strings the backend emits.

// Page is the common shape of every paginated list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size,omitempty"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type Department string

// ActionResponse is the generic {success, message} acknowledgement.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type RoleInfoResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
