package api

import (
	"context"
	"net/url"
)

type SSOProtocol string

const (
	ProtocolSAML SSOProtocol = "SAML"
	ProtocolOIDC SSOProtocol = "OIDC"
)

type SAMLConfigRequest struct {
	IdPEntityID string  `json:"idp_entity_id" validate:"required"`
	IdPSSOURL   string  `json:"idp_sso_url" validate:"required,url"`
	IdPX509Cert string  `json:"idp_x509_cert" validate:"required"`
	SPEntityID  string  `json:"sp_entity_id" validate:"required"`
	SPACSURL    string  `json:"sp_acs_url" validate:"required,url"`
	IdPSLOURL   *string `json:"idp_slo_url,omitempty" validate:"omitempty,url"`
}

type SAMLConfigResponse struct {
	IdPEntityID string  `json:"idp_entity_id"`
	IdPSSOURL   string  `json:"idp_sso_url"`
	SPEntityID  string  `json:"sp_entity_id"`
	SPACSURL    string  `json:"sp_acs_url"`
	IdPSLOURL   *string `json:"idp_slo_url,omitempty"`
}

type OIDCConfigRequest struct {
	ClientID         string  `json:"client_id" validate:"required"`
	ClientSecret     string  `json:"client_secret" validate:"required"`
	AuthorizationURL string  `json:"authorization_url" validate:"required,url"`
	TokenURL         string  `json:"token_url" validate:"required,url"`
	UserinfoURL      *string `json:"userinfo_url,omitempty" validate:"omitempty,url"`
	JWKSURI          *string `json:"jwks_uri,omitempty" validate:"omitempty,url"`
	Scopes           string  `json:"scopes,omitempty"`
}

type OIDCConfigResponse struct {
	ClientID         string  `json:"client_id"`
	AuthorizationURL string  `json:"authorization_url"`
	TokenURL         string  `json:"token_url"`
	UserinfoURL      *string `json:"userinfo_url,omitempty"`
	JWKSURI          *string `json:"jwks_uri,omitempty"`
	Scopes           string  `json:"scopes"`
}

// AttributeMapping maps IdP claims/attributes onto portal user fields.
type AttributeMapping struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	UID   *string `json:"uid,omitempty"`
}

type CreateSSOProviderRequest struct {
	Name             string             `json:"name" validate:"required"`
	Slug             string             `json:"slug" validate:"required,max=64"`
	Protocol         SSOProtocol        `json:"protocol" validate:"required,oneof=SAML OIDC"`
	SAMLConfig       *SAMLConfigRequest `json:"saml_config,omitempty" validate:"required_if=Protocol SAML"`
	OIDCConfig       *OIDCConfigRequest `json:"oidc_config,omitempty" validate:"required_if=Protocol OIDC"`
	AttributeMapping *AttributeMapping  `json:"attribute_mapping,omitempty"`
	DisplayOrder     int                `json:"display_order,omitempty"`
}

type UpdateSSOProviderRequest struct {
	Name             *string            `json:"name,omitempty"`
	SAMLConfig       *SAMLConfigRequest `json:"saml_config,omitempty"`
	OIDCConfig       *OIDCConfigRequest `json:"oidc_config,omitempty"`
	AttributeMapping *AttributeMapping  `json:"attribute_mapping,omitempty"`
	DisplayOrder     *int               `json:"display_order,omitempty"`
}

type SSOProviderResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	Protocol         SSOProtocol         `json:"protocol"`
	SAMLConfig       *SAMLConfigResponse `json:"saml_config,omitempty"`
	OIDCConfig       *OIDCConfigResponse `json:"oidc_config,omitempty"`
	AttributeMapping AttributeMapping    `json:"attribute_mapping"`
	IsActive         bool                `json:"is_active"`
	DisplayOrder     int                 `json:"display_order"`
	CreatedAt        *string             `json:"created_at,omitempty"`
	UpdatedAt        *string             `json:"updated_at,omitempty"`
}

// SSOProviderSummary is the public login-page view of a provider.
type SSOProviderSummary struct {
	Name     string      `json:"name"`
	Slug     string      `json:"slug"`
	Protocol SSOProtocol `json:"protocol"`
}

type SSOProviderListResponse struct {
	Providers  []SSOProviderSummary `json:"providers"`
	EnforceSSO bool                 `json:"enforce_sso,omitempty"`
}

type SSOAdminProviderListResponse struct {
	Providers []SSOProviderResponse `json:"providers"`
}

type SSOLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type SSOExchangeCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

type SSOConfigResponse struct {
	AutoCreateUsers bool   `json:"auto_create_users"`
	EnforceSSO      bool   `json:"enforce_sso"`
	DefaultRole     string `json:"default_role"`
}

type UpdateSSOConfigRequest struct {
	AutoCreateUsers *bool   `json:"auto_create_users,omitempty"`
	EnforceSSO      *bool   `json:"enforce_sso,omitempty"`
	DefaultRole     *string `json:"default_role,omitempty"`
}

type SSOService struct {
	c *Client
}

// Providers lists the active providers shown on the login page.
func (s *SSOService) Providers(ctx context.Context) (*SSOProviderListResponse, error) {
	return call[SSOProviderListResponse](ctx, s.c, &request{
		operation: "listSsoProviders",
		method:    "GET",
		url:       PathSSOProviders,
	})
}

// Login starts an SSO login; the returned URL points at the IdP.
func (s *SSOService) Login(ctx context.Context, slug string) (*SSOLoginResponse, error) {
	return call[SSOLoginResponse](ctx, s.c, &request{
		operation: "ssoLogin",
		method:    "GET",
		url:       PathSSOLogin,
		path:      map[string]string{"slug": slug},
	})
}

// ExchangeCode swaps the one-time code from an SSO callback for a portal token.
func (s *SSOService) ExchangeCode(ctx context.Context, code string) (*LoginResponse, error) {
	return call[LoginResponse](ctx, s.c, &request{
		operation: "ssoExchangeCode",
		method:    "POST",
		url:       PathSSOToken,
		body:      SSOExchangeCodeRequest{Code: code},
		mediaType: MediaTypeJSON,
	})
}

// SAMLACS posts a SAMLResponse to the assertion consumer service.
func (s *SSOService) SAMLACS(ctx context.Context, slug, samlResponse, relayState string) error {
	form := url.Values{"SAMLResponse": {samlResponse}}
	if relayState != "" {
		form.Set("RelayState", relayState)
	}
	return s.c.send(ctx, &request{
		operation: "samlAcs",
		method:    "POST",
		url:       PathSSOSAMLACS,
		path:      map[string]string{"slug": slug},
		formData:  form,
		mediaType: MediaTypeForm,
	}, nil)
}

func (s *SSOService) AdminList(ctx context.Context) (*SSOAdminProviderListResponse, error) {
	return call[SSOAdminProviderListResponse](ctx, s.c, &request{
		operation: "adminListSsoProviders",
		method:    "GET",
		url:       PathSSOAdminProviders,
	})
}

func (s *SSOService) AdminCreate(ctx context.Context, req CreateSSOProviderRequest) (*SSOProviderResponse, error) {
	return call[SSOProviderResponse](ctx, s.c, &request{
		operation: "adminCreateSsoProvider",
		method:    "POST",
		url:       PathSSOAdminProviders,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *SSOService) AdminGet(ctx context.Context, providerID string) (*SSOProviderResponse, error) {
	return s.provider(ctx, "adminGetSsoProvider", "GET", PathSSOAdminProvider, providerID, nil)
}

func (s *SSOService) AdminUpdate(ctx context.Context, providerID string, req UpdateSSOProviderRequest) (*SSOProviderResponse, error) {
	return s.provider(ctx, "adminUpdateSsoProvider", "PUT", PathSSOAdminProvider, providerID, req)
}

func (s *SSOService) AdminDelete(ctx context.Context, providerID string) error {
	return s.c.send(ctx, &request{
		operation: "adminDeleteSsoProvider",
		method:    "DELETE",
		url:       PathSSOAdminProvider,
		path:      map[string]string{"provider_id": providerID},
	}, nil)
}

func (s *SSOService) AdminActivate(ctx context.Context, providerID string) (*SSOProviderResponse, error) {
	return s.provider(ctx, "adminActivateSsoProvider", "POST", PathSSOAdminActivate, providerID, nil)
}

func (s *SSOService) AdminDeactivate(ctx context.Context, providerID string) (*SSOProviderResponse, error) {
	return s.provider(ctx, "adminDeactivateSsoProvider", "POST", PathSSOAdminDeactivate, providerID, nil)
}

func (s *SSOService) AdminConfig(ctx context.Context) (*SSOConfigResponse, error) {
	return call[SSOConfigResponse](ctx, s.c, &request{
		operation: "adminGetSsoConfig",
		method:    "GET",
		url:       PathSSOAdminConfig,
	})
}

func (s *SSOService) AdminUpdateConfig(ctx context.Context, req UpdateSSOConfigRequest) (*SSOConfigResponse, error) {
	return call[SSOConfigResponse](ctx, s.c, &request{
		operation: "adminUpdateSsoConfig",
		method:    "PUT",
		url:       PathSSOAdminConfig,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *SSOService) provider(ctx context.Context, operation, method, path, providerID string, body any) (*SSOProviderResponse, error) {
	r := &request{
		operation: operation,
		method:    method,
		url:       path,
		path:      map[string]string{"provider_id": providerID},
	}
	if body != nil {
		r.body = body
		r.mediaType = MediaTypeJSON
	}
	return call[SSOProviderResponse](ctx, s.c, r)
}
