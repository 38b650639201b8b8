package api

import (
	"context"
	"net/url"
)

type OAuthService struct {
	c *Client
}

// GoogleLoginURL is the backend endpoint that redirects to Google's consent
// screen; browsers are sent there rather than the client calling it.
func (s *OAuthService) GoogleLoginURL() string {
	u := *s.c.baseURL
	u.Path += PathGoogleLogin
	return u.String()
}

// GoogleCallback exchanges a Google authorization code for a portal token.
func (s *OAuthService) GoogleCallback(ctx context.Context, code string) (*LoginResponse, error) {
	return call[LoginResponse](ctx, s.c, &request{
		operation: "googleCallback",
		method:    "GET",
		url:       PathGoogleCallback,
		query:     url.Values{"code": {code}},
	})
}
