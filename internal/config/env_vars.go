package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	appNameKey           = "app_name"
	baseURLKey           = "base_url"
	envKey               = "env"
	logLevelKey          = "log_level"
	sessionFileKey       = "session_file"
	sessionPassphraseKey = "session_passphrase"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

// GetBaseURL returns the backend API root (e.g., "https://portal.example.com/api")
func (e EnvVars) GetBaseURL() string {
	return e.v.GetString(baseURLKey)
}

func (e EnvVars) GetEnv() string {
	env := e.v.GetString(envKey)
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(logLevelKey)
}

// GetSessionFile returns where the CLI persists its session. Defaults to
// ~/.portal/session when unset.
func (e EnvVars) GetSessionFile() string {
	if file := e.v.GetString(sessionFileKey); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".portal", "session")
	}
	return filepath.Join(home, ".portal", "session")
}

func (e EnvVars) GetSessionPassphrase() string {
	return e.v.GetString(sessionPassphraseKey)
}
