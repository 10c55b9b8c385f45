package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/sigterm-de/boopkit/internal/resolve"
	"codeberg.org/sigterm-de/boopkit/internal/scripts"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	appName        = "boopkit"
	defaultTimeout = 5 * time.Second
)

// UserConfiguration holds runtime paths and settings. Values come from, in
// increasing priority: defaults, config.yaml, BOOPKIT_* environment
// variables.
type UserConfiguration struct {
	ScriptsDir     string        `mapstructure:"scripts_dir"`      // external module root and user scripts
	LogLevel       string        `mapstructure:"log_level"`        // debug, info, warn, error
	MaxScriptBytes int64         `mapstructure:"max_script_bytes"` // per-file cap for user scripts
	Timeout        time.Duration `mapstructure:"timeout"`          // per-invocation limit for run, 0 disables
}

func defaultConfiguration() UserConfiguration {
	return UserConfiguration{
		ScriptsDir:     resolve.DefaultExternalRoot(appName),
		LogLevel:       "info",
		MaxScriptBytes: scripts.DefaultMaxScriptBytes,
		Timeout:        defaultTimeout,
	}
}

// LoadConfiguration reads configFile, or config.yaml from
// $XDG_CONFIG_HOME/boopkit when configFile is empty (a missing default file
// is fine), then creates the scripts directory if absent.
func LoadConfiguration(configFile string) (UserConfiguration, error) {
	v := viper.New()

	def := defaultConfiguration()
	v.SetDefault("scripts_dir", def.ScriptsDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("max_script_bytes", def.MaxScriptBytes)
	v.SetDefault("timeout", def.Timeout)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return UserConfiguration{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return UserConfiguration{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg UserConfiguration
	if err := v.Unmarshal(&cfg); err != nil {
		return UserConfiguration{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := os.MkdirAll(cfg.ScriptsDir, 0o755); err != nil {
		return UserConfiguration{}, fmt.Errorf("config: create scripts dir: %w", err)
	}
	return cfg, nil
}
