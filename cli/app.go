package cli

import (
	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/jrsteele09/go-portal-client/session"
	"golang.org/x/oauth2"
)

// session opens the encrypted session file and restores any live session in it.
func (a *app) session() (*session.Manager, error) {
	store, err := session.NewFileStore(a.cfg.GetSessionFile(), a.cfg.GetSessionPassphrase())
	if err != nil {
		return nil, perrors.Wrapf(err, "set PORTAL_SESSION_PASSPHRASE to keep a session")
	}

	m := session.NewManager(store, a.logger)
	if err := m.Restore(); err != nil {
		if !perrors.Is(err, perrors.ErrSessionExpired) {
			return nil, err
		}
		a.logger.Warn().Msg("stored session has expired, please log in again")
	}
	return m, nil
}

func (a *app) client(tokens oauth2.TokenSource) (*api.Client, error) {
	opts := []api.Option{
		api.WithLogger(a.logger),
		api.WithMetrics(a.metrics),
		api.WithTimeout(a.cfg.GetRequestTimeout()),
		api.WithUserAgent(a.cfg.GetUserAgent()),
	}
	if tokens != nil {
		opts = append(opts, api.WithTokenSource(tokens))
	}
	return api.New(a.cfg.GetBaseURL(), opts...)
}

// authedClient requires a live session and returns a client bound to it.
func (a *app) authedClient() (*session.Manager, *api.Client, error) {
	m, err := a.session()
	if err != nil {
		return nil, nil, err
	}
	if !m.IsLoggedIn() {
		return nil, nil, perrors.Wrapf(perrors.ErrNotLoggedIn, "run portalctl login first")
	}
	client, err := a.client(m)
	if err != nil {
		return nil, nil, err
	}
	return m, client, nil
}
