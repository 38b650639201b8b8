package fakeportal

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
)

type contextKey string

const contextKeyUser contextKey = "user"

// requireAuth validates a Bearer token issued by this server
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		s.mu.Lock()
		sess, ok := s.sessions[parts[1]]
		user := s.users[sess.userID]
		s.mu.Unlock()

		if !ok || user == nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if !time.Now().Before(sess.expiresAt) {
			writeError(w, http.StatusUnauthorized, "Token expired")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyUser, user)))
	}
}

// requireAdmin must be chained inside requireAuth
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(contextKeyUser).(*User)
		if user == nil || user.Role != api.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	}
}

func currentUser(r *http.Request) *User {
	user, _ := r.Context().Value(contextKeyUser).(*User)
	return user
}
