// Package fakeportal is an in-memory portal backend for tests. It speaks the same
// routes as the real API for the operations the client logic depends on.
package fakeportal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-portal-client/api"
)

// User is an account known to the fake backend.
type User struct {
	ID       string
	UID      string
	Email    string
	Name     string
	Password string
	Role     api.UserRole
}

type session struct {
	userID    string
	expiresAt time.Time
}

type Server struct {
	mux *http.ServeMux

	mu           sync.Mutex
	users        map[string]*User // uid -> user
	sessions     map[string]session
	tasks        map[string][]api.TaskStatusResponse
	taskPolls    map[string]int
	cancelled    map[string]bool
	failStatus   map[string]int
	tokenTTL     time.Duration
	requestCount map[string]int
	authHeaders  []string

	brokerMessages map[string][]api.BrokerMessage
}

func New() *Server {
	s := &Server{
		mux:          http.NewServeMux(),
		users:        make(map[string]*User),
		sessions:     make(map[string]session),
		tasks:        make(map[string][]api.TaskStatusResponse),
		taskPolls:    make(map[string]int),
		cancelled:    make(map[string]bool),
		failStatus:   make(map[string]int),
		tokenTTL:     time.Hour,
		requestCount: make(map[string]int),

		brokerMessages: make(map[string][]api.BrokerMessage),
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requestCount[r.Method+" "+r.URL.Path]++
	s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
	s.mu.Unlock()
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if s.failed(w, r) {
			return
		}
		handler(w, r)
	})
}

// AddUser registers an account; an empty ID is filled with a UUID.
func (s *Server) AddUser(u User) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = api.RoleUser
	}
	s.users[u.UID] = &u
	return &u
}

// SetTokenTTL controls expires_in of subsequent logins.
func (s *Server) SetTokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}

// IssueToken creates a bearer token for uid without going through login.
func (s *Server) IssueToken(uid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(s.users[uid])
}

// ScriptTask queues the status responses returned by successive polls of taskID.
// The last response repeats once the script is exhausted.
func (s *Server) ScriptTask(taskID string, statuses ...api.TaskStatusResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range statuses {
		statuses[i].TaskID = taskID
	}
	s.tasks[taskID] = statuses
}

// FailRoute makes every request to "METHOD /path" answer with status.
func (s *Server) FailRoute(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus[route] = status
}

func (s *Server) TaskPolls(taskID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskPolls[taskID]
}

func (s *Server) Cancelled(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled[taskID]
}

// Requests returns how many times "METHOD /path" was hit.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount[route]
}

// AuthHeaders returns the Authorization header of every request in order.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *Server) issueTokenLocked(u *User) string {
	if u == nil {
		return ""
	}
	token := uuid.NewString()
	s.sessions[token] = session{userID: u.UID, expiresAt: time.Now().Add(s.tokenTTL)}
	return token
}

func (s *Server) failed(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	status, ok := s.failStatus[r.Method+" "+r.URL.Path]
	s.mu.Unlock()
	if !ok {
		return false
	}
	writeError(w, status, http.StatusText(status))
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, api.HTTPValidationError{
		Detail: []api.ValidationError{{Loc: []any{"body", field}, Msg: msg, Type: "value_error"}},
	})
}

func pathValue(r *http.Request, name string) (string, error) {
	v := r.PathValue(name)
	if v == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return v, nil
}
