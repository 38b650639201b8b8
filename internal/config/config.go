package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PORTAL"

type Config interface {
	EnvConfig
	ClientConfig
	SecurityConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetLogLevel() string
	GetSessionFile() string
	GetSessionPassphrase() string
}

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetPollInterval() time.Duration
	GetPageSize() int
	GetUserAgent() string
}

type mainConfig struct {
	EnvVars
	Client
	Security
}

// New returns a Config backed by PORTAL_* environment variables.
func New() Config {
	return newConfig(newViper())
}

// NewFromFile layers a config file (yaml, json, toml...) underneath the environment.
func NewFromFile(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("[config NewFromFile] failed to read %s: %w", path, err)
		}
	}
	return newConfig(v), nil
}

func newConfig(v *viper.Viper) Config {
	return mainConfig{
		EnvVars:  EnvVars{v: v},
		Client:   Client{v: v},
		Security: Security{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(appNameKey, "Portal")
	v.SetDefault(baseURLKey, "http://localhost:8000")
	v.SetDefault(envKey, "DEV")
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(sessionFileKey, "")
	v.SetDefault(sessionPassphraseKey, "")

	v.SetDefault(requestTimeoutKey, 30*time.Second)
	v.SetDefault(pollIntervalKey, 1500*time.Millisecond)
	v.SetDefault(pageSizeKey, 10)
	v.SetDefault(userAgentKey, "portalctl")

	v.SetDefault(appOriginKey, "http://localhost:5173")
	v.SetDefault(allowedRedirectHostsKey, defaultAllowedRedirectHosts)
	return v
}
