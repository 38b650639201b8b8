package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	appOriginKey            = "app_origin"
	allowedRedirectHostsKey = "allowed_redirect_hosts"
)

var defaultAllowedRedirectHosts = []string{
	"accounts.google.com",
	"oauth2.googleapis.com",
}

type SecurityConfig interface {
	GetAppOrigin() string
	GetAllowedRedirectHosts() []string
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

// GetAppOrigin is the origin treated as "same origin" by the redirect validator
func (s Security) GetAppOrigin() string {
	return s.v.GetString(appOriginKey)
}

// GetAllowedRedirectHosts accepts a list from a config file or a comma
// separated PORTAL_ALLOWED_REDIRECT_HOSTS value.
func (s Security) GetAllowedRedirectHosts() []string {
	var hosts []string
	for _, entry := range s.v.GetStringSlice(allowedRedirectHostsKey) {
		for _, host := range strings.Split(entry, ",") {
			if host = strings.TrimSpace(host); host != "" {
				hosts = append(hosts, strings.ToLower(host))
			}
		}
	}
	if len(hosts) == 0 {
		return append([]string(nil), defaultAllowedRedirectHosts...)
	}
	return hosts
}
