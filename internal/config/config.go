// Package config provides configuration loading using Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project-local config file looked up in the working directory.
const FileName = "bgrid.yaml"

// Config holds all configuration values for bgrid.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	MockAPIAddr       string        `mapstructure:"mockapi_addr" yaml:"mockapi_addr"`
	CollaboratorURL   string        `mapstructure:"collaborator_url" yaml:"collaborator_url"`
	SubmitTimeout     time.Duration `mapstructure:"submit_timeout" yaml:"submit_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	SessionTTL        time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	JanitorInterval   time.Duration `mapstructure:"janitor_interval" yaml:"janitor_interval"`
	CountBlockedMoves bool          `mapstructure:"count_blocked_moves" yaml:"count_blocked_moves"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogDev            bool          `mapstructure:"log_dev" yaml:"log_dev"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		MockAPIAddr:       ":9000",
		CollaboratorURL:   "http://localhost:9000/api/result",
		SubmitTimeout:     5 * time.Second,
		RequestTimeout:    15 * time.Second,
		SessionTTL:        30 * time.Minute,
		JanitorInterval:   time.Minute,
		CountBlockedMoves: true,
		LogLevel:          "info",
		LogDev:            false,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("mockapi_addr", d.MockAPIAddr)
	v.SetDefault("collaborator_url", d.CollaboratorURL)
	v.SetDefault("submit_timeout", d.SubmitTimeout)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("session_ttl", d.SessionTTL)
	v.SetDefault("janitor_interval", d.JanitorInterval)
	v.SetDefault("count_blocked_moves", d.CountBlockedMoves)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_dev", d.LogDev)
}

// Load resolves configuration with precedence:
// flags > BGRID_* env vars > config file > defaults.
// path may be empty, in which case ./bgrid.yaml is used when present.
// A bare PORT env var still overrides the listen address, as on most PaaS.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("BGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" && fileExists(FileName) {
		path = FileName
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isKnownKey(key) {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && (flags == nil || !flagChanged(flags, "addr")) {
		cfg.Addr = ":" + port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.CollaboratorURL == "":
		return fmt.Errorf("collaborator_url must be set")
	case c.SubmitTimeout <= 0:
		return fmt.Errorf("submit_timeout must be positive, got %s", c.SubmitTimeout)
	case c.SessionTTL <= 0:
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	case c.JanitorInterval <= 0:
		return fmt.Errorf("janitor_interval must be positive, got %s", c.JanitorInterval)
	}
	return nil
}

// WriteFile writes cfg as YAML to path.
func WriteFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

var knownKeys = map[string]struct{}{
	"addr": {}, "mockapi_addr": {}, "collaborator_url": {}, "submit_timeout": {},
	"request_timeout": {}, "session_ttl": {}, "janitor_interval": {},
	"count_blocked_moves": {}, "log_level": {}, "log_dev": {},
}

func isKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
