// Package redirect decides whether a URL is a safe target to follow after an
// OAuth or SSO round trip.
package redirect

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-portal-client/internal/config"
	perrors "github.com/jrsteele09/go-portal-client/internal/errors"
)

// Validator allows same-origin URLs, and https URLs whose host is, or is a
// subdomain of, an allowed host.
type Validator struct {
	origin       *url.URL
	allowedHosts []string
}

func NewValidator(appOrigin string, allowedHosts []string) (*Validator, error) {
	origin, err := url.Parse(appOrigin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("[redirect NewValidator] invalid app origin %q", appOrigin)
	}
	origin = &url.URL{Scheme: strings.ToLower(origin.Scheme), Host: origin.Host}

	hosts := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.Trim(strings.ToLower(strings.TrimSpace(h)), "."); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Validator{origin: origin, allowedHosts: hosts}, nil
}

func NewFromConfig(cfg config.SecurityConfig) (*Validator, error) {
	return NewValidator(cfg.GetAppOrigin(), cfg.GetAllowedRedirectHosts())
}

// IsAllowed resolves raw against the app origin and reports whether it may be
// followed. Anything unparsable is rejected.
func (v *Validator) IsAllowed(raw string) bool {
	target, err := v.resolve(raw)
	if err != nil {
		return false
	}
	if sameOrigin(target, v.origin) {
		return true
	}
	if target.Scheme != "https" {
		return false
	}

	host := strings.ToLower(target.Hostname())
	for _, allowed := range v.allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// Check is IsAllowed returning ErrInvalidRedirect.
func (v *Validator) Check(raw string) error {
	if !v.IsAllowed(raw) {
		return perrors.Wrapf(perrors.ErrInvalidRedirect, "[redirect Check] %q", raw)
	}
	return nil
}

// resolve parses raw the way a browser would: tabs and newlines are dropped,
// backslashes act as slashes, and relative references use the app origin.
// Unlike a browser it refuses an empty reference and an http(s) url with no
// authority ("https:host/path").
func (v *Validator) resolve(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	raw = strings.NewReplacer("\t", "", "\n", "", "\r", "", `\`, "/").Replace(raw)

	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	target := v.origin.ResolveReference(ref)
	target.Scheme = strings.ToLower(target.Scheme)
	if (target.Scheme == "http" || target.Scheme == "https") && target.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	return target, nil
}

func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch u.Scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
