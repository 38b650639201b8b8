// Package session holds the logged in user and bearer token, and supplies the
// token to the API client as an oauth2.TokenSource.
package session

import (
	"math"
	"sync"
	"time"

	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// maxExpiresIn is the largest expires_in, in seconds, that fits a time.Duration.
const maxExpiresIn = int64(math.MaxInt64 / time.Second)

// Session is the persisted login state. AccessToken and ExpiresAt are either both
// set or both zero.
type Session struct {
	User        *api.LoginUserInfo `json:"user,omitempty"`
	AccessToken string             `json:"access_token,omitempty"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

func (s Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

var _ oauth2.TokenSource = (*Manager)(nil)

// Manager owns the current session. It is safe for concurrent use.
type Manager struct {
	store  Store
	logger zerolog.Logger

	mu      sync.RWMutex
	current Session
}

// NewManager creates a manager persisting to store (in-memory when nil).
func NewManager(store Store, logger zerolog.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Login records a successful authentication. The session expires expiresIn
// seconds from now; when expiresIn is not positive the exp claim of the token is
// used instead.
func (m *Manager) Login(user *api.LoginUserInfo, token string, expiresIn int) error {
	if token == "" {
		return perrors.Wrapf(perrors.ErrInvalidToken, "[session Login] empty access token")
	}

	var expiresAt time.Time
	if int64(expiresIn) > maxExpiresIn {
		return perrors.Wrapf(perrors.ErrInvalidExpiry, "[session Login] expires_in %d out of range", expiresIn)
	}
	if expiresIn > 0 {
		expiresAt = NowTimeFunc().Add(time.Duration(expiresIn) * time.Second)
	} else {
		exp, err := ExpiryFromToken(token)
		if err != nil {
			return perrors.Wrapf(err, "[session Login] expires_in not set")
		}
		expiresAt = exp
	}

	sess := Session{User: copyUser(user), AccessToken: token, ExpiresAt: expiresAt}

	if err := m.store.Save(sess); err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist session")
		return perrors.Wrapf(err, "[session Login] failed to persist session")
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.logger.Debug().Str("uid", userUID(user)).Time("expires_at", expiresAt).Msg("logged in")
	return nil
}

// LoginWithResponse is Login fed from a login endpoint response.
func (m *Manager) LoginWithResponse(resp *api.LoginResponse) error {
	if resp == nil {
		return perrors.Wrapf(perrors.ErrInvalidToken, "[session LoginWithResponse] nil response")
	}
	return m.Login(&resp.User, resp.AccessToken, resp.ExpiresIn)
}

// Logout clears the session and its persisted copy.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return perrors.Wrapf(err, "[session Logout] failed to clear store")
	}
	return nil
}

// Restore loads a persisted session. A missing session is not an error; an
// expired one is discarded and reported as ErrSessionExpired.
func (m *Manager) Restore() error {
	sess, err := m.store.Load()
	if perrors.Is(err, perrors.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return perrors.Wrapf(err, "[session Restore] failed to load session")
	}

	if sess.AccessToken == "" || sess.ExpiresAt.IsZero() {
		_ = m.store.Clear()
		return perrors.Wrapf(perrors.ErrStoreCorrupt, "[session Restore] token and expiry must both be set")
	}
	if sess.expired(NowTimeFunc()) {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn().Err(err).Msg("failed to clear expired session")
		}
		return perrors.Wrapf(perrors.ErrSessionExpired, "[session Restore] expired at %s", sess.ExpiresAt.Format(time.RFC3339))
	}

	m.mu.Lock()
	m.current = *sess
	m.mu.Unlock()
	return nil
}

// IsLoggedIn reports a token that has not yet expired.
func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AccessToken != "" && NowTimeFunc().Before(m.current.ExpiresAt)
}

// IsExpired reports an expiry that has been reached. A manager that never logged
// in is not expired.
func (m *Manager) IsExpired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.expired(NowTimeFunc())
}

func (m *Manager) IsAdmin() bool {
	if !m.IsLoggedIn() {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.User != nil && m.current.User.Role == api.RoleAdmin
}

// User returns a copy of the logged in user, or nil.
func (m *Manager) User() *api.LoginUserInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.current.User)
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess := m.current
	sess.User = copyUser(sess.User)
	return sess
}

// Token implements oauth2.TokenSource. An expired token is never returned.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current.AccessToken == "" {
		return nil, perrors.ErrNotLoggedIn
	}
	if m.current.expired(NowTimeFunc()) {
		return nil, perrors.ErrSessionExpired
	}
	return &oauth2.Token{
		AccessToken: m.current.AccessToken,
		TokenType:   "Bearer",
		Expiry:      m.current.ExpiresAt,
	}, nil
}

func copyUser(u *api.LoginUserInfo) *api.LoginUserInfo {
	if u == nil {
		return nil
	}
	c := *u
	if u.Name != nil {
		name := *u.Name
		c.Name = &name
	}
	return &c
}

func userUID(u *api.LoginUserInfo) string {
	if u == nil {
		return ""
	}
	return u.UID
}
