package fakeportal

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-portal-client/api"
)

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username == "" || password == "" {
			writeValidation(w, "username", "field required")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		user := s.users[username]
		if user == nil {
			for _, u := range s.users {
				if strings.EqualFold(u.Email, username) {
					user = u
					break
				}
			}
		}
		if user == nil || user.Password != password {
			writeError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}

		name := user.Name
		writeJSON(w, http.StatusOK, api.LoginResponse{
			AccessToken: s.issueTokenLocked(user),
			TokenType:   "bearer",
			ExpiresIn:   int(s.tokenTTL.Seconds()),
			User: api.LoginUserInfo{
				ID:    user.ID,
				UID:   user.UID,
				Email: user.Email,
				Name:  &name,
				Role:  user.Role,
			},
		})
	}
}

func (s *Server) createUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.UserSchema
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		s.mu.Lock()
		_, exists := s.users[req.UID]
		s.mu.Unlock()
		if exists {
			writeValidation(w, "uid", "uid already registered")
			return
		}
		s.AddUser(User{UID: req.UID, Email: req.Email, Name: req.Name, Password: req.Pwd, Role: req.Role})
		writeJSON(w, http.StatusCreated, map[string]string{"message": "verification email sent"})
	}
}

func (s *Server) meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		writeJSON(w, http.StatusOK, api.CurrentUserResponse{
			ID:      user.ID,
			UID:     user.UID,
			Email:   user.Email,
			Role:    user.Role,
			Profile: api.CurrentUserProfileResponse{Name: user.Name},
		})
	}
}

func (s *Server) listUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pageParams(r)

		s.mu.Lock()
		all := make([]api.UserListItem, 0, len(s.users))
		for _, u := range s.users {
			name := u.Name
			all = append(all, api.UserListItem{ID: u.ID, UID: u.UID, Email: u.Email, Name: &name, Role: u.Role})
		}
		s.mu.Unlock()

		sort.Slice(all, func(i, j int) bool { return all[i].UID < all[j].UID })
		writeJSON(w, http.StatusOK, paginate(all, page, size))
	}
}

func (s *Server) avatarHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeValidation(w, "file", "field required")
			return
		}
		defer file.Close()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "filename": header.Filename})
	}
}

func (s *Server) assignEmployeeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.AssignEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		userID := req.UserID
		writeJSON(w, http.StatusOK, api.AssignEmployeeResponse{
			ID:         1,
			IDNo:       req.IDNo,
			Department: req.Department,
			UserID:     &userID,
			Role:       &api.RoleInfoResponse{ID: req.RoleID, Name: "member"},
		})
	}
}

// uploadCSVHandler accepts "idno,department" rows after a header line.
func (s *Server) uploadCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeValidation(w, "file", "field required")
			return
		}
		defer file.Close()

		resp := api.CsvUploadResponse{Results: []api.CsvUploadResultItem{}}
		scanner := bufio.NewScanner(file)
		row := 0
		for scanner.Scan() {
			row++
			if row == 1 {
				continue
			}
			fields := strings.Split(scanner.Text(), ",")
			idno := strings.TrimSpace(fields[0])
			item := api.CsvUploadResultItem{Row: row, IDNo: idno, Success: idno != "" && len(fields) > 1}
			if item.Success {
				item.Message = "created"
				resp.SuccessCount++
			} else {
				item.Message = "missing idno or department"
				resp.FailureCount++
			}
			resp.Results = append(resp.Results, item)
			resp.Total++
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) samlACSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostFormValue("SAMLResponse") == "" {
			writeValidation(w, "SAMLResponse", "field required")
			return
		}
		writeJSON(w, http.StatusOK, api.ActionResponse{Success: true, Message: r.PathValue("slug")})
	}
}

func (s *Server) taskStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := pathValue(r, "task_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		script, ok := s.tasks[taskID]
		poll := s.taskPolls[taskID]
		s.taskPolls[taskID]++
		cancelled := s.cancelled[taskID]
		s.mu.Unlock()

		if !ok || len(script) == 0 {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		if cancelled {
			writeJSON(w, http.StatusOK, api.TaskStatusResponse{TaskID: taskID, Status: api.TaskRevoked})
			return
		}
		writeJSON(w, http.StatusOK, script[min(poll, len(script)-1)])
	}
}

func (s *Server) taskCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := pathValue(r, "task_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		s.cancelled[taskID] = true
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, api.ActionResponse{Success: true})
	}
}

func (s *Server) taskResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := pathValue(r, "task_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		script := s.tasks[taskID]
		s.mu.Unlock()

		for i := len(script) - 1; i >= 0; i-- {
			if script[i].Status == api.TaskSuccess {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(script[i].Result)
				return
			}
		}
		writeError(w, http.StatusNotFound, "result not ready")
	}
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return page, size
}

func paginate[T any](all []T, page, size int) api.Page[T] {
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	return api.Page[T]{Items: all[start:end], Total: len(all), Page: page, Size: size}
}
