// Package config loads runtime configuration from config.toml, PINIT_*
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pinerr "github.com/mj1618/pinit/internal/errors"
	"github.com/mj1618/pinit/internal/logging"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "PINIT"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type RestoreConfig struct {
	OnStart bool `mapstructure:"on_start"`
}

type WatchConfig struct {
	State bool `mapstructure:"state"`
}

type ServerConfig struct {
	Transport string        `mapstructure:"transport"`
	Port      int           `mapstructure:"port"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type HotkeysConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type PinConfig struct {
	// Exclude lists process names that may never be pinned.
	Exclude []string `mapstructure:"exclude"`
}

// Config is the resolved runtime configuration.
type Config struct {
	State   StateConfig    `mapstructure:"state"`
	Log     logging.Config `mapstructure:"log"`
	Restore RestoreConfig  `mapstructure:"restore"`
	Watch   WatchConfig    `mapstructure:"watch"`
	Server  ServerConfig   `mapstructure:"server"`
	Hotkeys HotkeysConfig  `mapstructure:"hotkeys"`
	Pin     PinConfig      `mapstructure:"pin"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("state.path", DefaultStatePath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.report_caller", false)
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", true)
	v.SetDefault("log.dir", LogDir())
	v.SetDefault("log.stderr", "auto")
	v.SetDefault("restore.on_start", true)
	v.SetDefault("watch.state", true)
	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cache_ttl", 500*time.Millisecond)
	v.SetDefault("hotkeys.enabled", true)
	v.SetDefault("pin.exclude", []string{"pinit.exe"})
}

// Load resolves the configuration held by v. If the caller has not pointed v
// at a file, config.toml in ConfigDir is used when present.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, pinerr.ConfigInvalid("read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pinerr.ConfigInvalid("decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check by type alone.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.State.Path) == "" {
		return pinerr.ConfigInvalid("state.path is empty", nil)
	}
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return pinerr.ConfigInvalid(fmt.Sprintf("server.transport %q is not one of stdio, http", c.Server.Transport), nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return pinerr.ConfigInvalid(fmt.Sprintf("server.port %d is out of range", c.Server.Port), nil)
	}
	if c.Server.CacheTTL < 0 {
		return pinerr.ConfigInvalid("server.cache_ttl is negative", nil)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return pinerr.ConfigInvalid(fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format), nil)
	}
	return nil
}
