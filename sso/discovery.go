// Package sso builds SSO provider configuration from an identity provider's
// published metadata.
package sso

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-portal-client/api"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
	"github.com/jrsteele09/go-portal-client/internal/utils"
)

// DefaultScopes is used when the provider does not advertise scopes_supported.
const DefaultScopes = "openid profile email"

var wantedScopes = []string{oidc.ScopeOpenID, "profile", "email"}

type discoveryClaims struct {
	JWKSURI         string `json:"jwks_uri"`
	ScopesSupported any    `json:"scopes_supported"`
}

// DiscoverOIDC reads issuer's /.well-known/openid-configuration and returns the
// OIDC configuration to register with the portal. issuer must match the document's
// issuer exactly, trailing slash included. hc may be nil.
func DiscoverOIDC(ctx context.Context, hc *http.Client, issuer, clientID, clientSecret string) (*api.OIDCConfigRequest, error) {
	if hc != nil {
		ctx = oidc.ClientContext(ctx, hc)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, perrors.Wrapf(err, "[sso DiscoverOIDC] discovery failed for %s", issuer)
	}

	var claims discoveryClaims
	if err := provider.Claims(&claims); err != nil {
		return nil, perrors.Wrapf(err, "[sso DiscoverOIDC] failed to decode discovery document")
	}

	endpoint := provider.Endpoint()
	cfg := &api.OIDCConfigRequest{
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		AuthorizationURL: endpoint.AuthURL,
		TokenURL:         endpoint.TokenURL,
		Scopes:           scopes(utils.StringsFrom(claims.ScopesSupported)),
	}
	if u := provider.UserInfoEndpoint(); u != "" {
		cfg.UserinfoURL = utils.Ptr(u)
	}
	if claims.JWKSURI != "" {
		cfg.JWKSURI = utils.Ptr(claims.JWKSURI)
	}
	return cfg, nil
}

// NewOIDCProviderRequest wraps a discovered configuration in a create request.
func NewOIDCProviderRequest(name, slug string, cfg *api.OIDCConfigRequest) api.CreateSSOProviderRequest {
	return api.CreateSSOProviderRequest{
		Name:       name,
		Slug:       slug,
		Protocol:   api.ProtocolOIDC,
		OIDCConfig: cfg,
	}
}

func scopes(supported []string) string {
	if len(supported) == 0 {
		return DefaultScopes
	}
	var out []string
	for _, want := range wantedScopes {
		for _, s := range supported {
			if s == want {
				out = append(out, want)
				break
			}
		}
	}
	if len(out) == 0 {
		return DefaultScopes
	}
	return strings.Join(out, " ")
}
