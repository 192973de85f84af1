// Package config loads the daemon configuration: where to listen, which
// presenters to use and how to reach the due-items source. The reminder
// policy itself lives in the settings store.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/utils"
)

const (
	PresenterTray      = "tray"
	PresenterWebsocket = "websocket"
	PresenterConsole   = "console"
)

var knownPresenters = []string{PresenterTray, PresenterWebsocket, PresenterConsole}

type Config struct {
	Listen         string        `mapstructure:"listen"`
	CORS           []string      `mapstructure:"cors"`
	DueSourceURL   string        `mapstructure:"due_source_url"`
	CheckInterval  time.Duration `mapstructure:"check_interval"`
	CheckSchedule  string        `mapstructure:"check_schedule"`
	CheckTimeout   time.Duration `mapstructure:"check_timeout"`
	RecoveryWindow time.Duration `mapstructure:"recovery_window"`
	Presenters     []string      `mapstructure:"presenters"`
	Metrics        bool          `mapstructure:"metrics"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Durations are kept as strings so written files stay readable
	v.SetDefault("listen", constants.DefaultListenAddr)
	v.SetDefault("cors", []string{"http://localhost:*", "http://127.0.0.1:*"})
	v.SetDefault("due_source_url", "")
	v.SetDefault("check_interval", (time.Duration(constants.DefaultCheckIntervalMin) * time.Minute).String())
	v.SetDefault("check_schedule", "")
	v.SetDefault("check_timeout", constants.DefaultCheckTimeout.String())
	v.SetDefault("recovery_window", constants.DefaultRecoveryWindow.String())
	v.SetDefault("presenters", []string{PresenterTray, PresenterWebsocket})
	v.SetDefault("metrics", true)
	return v
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() Config {
	return Config{
		Listen:         constants.DefaultListenAddr,
		CORS:           slices.Clone(constants.DefaultAllowedOrigins),
		CheckInterval:  time.Duration(constants.DefaultCheckIntervalMin) * time.Minute,
		CheckTimeout:   constants.DefaultCheckTimeout,
		RecoveryWindow: constants.DefaultRecoveryWindow,
		Presenters:     []string{PresenterTray, PresenterWebsocket},
		Metrics:        true,
	}
}

// Load reads path (if it exists) and applies REVIEWNAG_* environment
// overrides on top of the defaults.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		path = utils.ExpandPath(path)
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) || !errors.Is(pathErr, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Presenters = normalizeList(cfg.Presenters)
	cfg.CORS = normalizeList(cfg.CORS)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive, got %s", c.CheckInterval)
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("check_timeout must be positive, got %s", c.CheckTimeout)
	}
	if c.RecoveryWindow < 0 {
		return fmt.Errorf("recovery_window must not be negative, got %s", c.RecoveryWindow)
	}
	for _, p := range c.Presenters {
		if !slices.Contains(knownPresenters, p) {
			return fmt.Errorf("unknown presenter %q (expected one of %s)", p, strings.Join(knownPresenters, ", "))
		}
	}
	return nil
}

// Has reports whether presenter is enabled.
func (c Config) Has(presenter string) bool {
	return slices.Contains(c.Presenters, presenter)
}

// WriteDefault writes the default configuration to path unless a file is
// already there.
func WriteDefault(path string) error {
	path = utils.ExpandPath(path)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := newViper()
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// normalizeList accepts both YAML lists and comma-separated env values.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
