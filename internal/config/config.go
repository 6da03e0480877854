// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads supervisor configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	mkdscerrors "github.com/tombee/mkdsc/pkg/errors"
)

// DefaultAppID is the identifier used to derive the per-user data directory.
const DefaultAppID = "com.mkdsc.app"

// Config is the supervisor configuration.
type Config struct {
	// AppID names the per-user data directory provided by the shell.
	// Environment: MKDSC_APP_ID
	// Default: com.mkdsc.app
	AppID string `yaml:"app_id,omitempty"`

	// ShutdownGrace is how long a terminated backend may take to exit
	// before it is killed. Zero kills immediately.
	// Environment: MKDSC_SHUTDOWN_GRACE
	// Default: 3s
	ShutdownGrace time.Duration `yaml:"shutdown_grace,omitempty"`

	Backend BackendConfig `yaml:"backend,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// BackendConfig controls how the backend's output is recorded.
type BackendConfig struct {
	// LogMaxBytes rotates backend.log to backend.log.1 at launch once it
	// grows past this size. Zero disables rotation.
	// Default: 10 MiB
	LogMaxBytes int64 `yaml:"log_max_bytes,omitempty"`

	// LifecycleLog enables the JSON-lines lifecycle event log next to backend.log.
	// Default: true
	LifecycleLog bool `yaml:"lifecycle_log"`
}

// LogConfig holds the supervisor's own logging settings. Environment
// variables read by the log package take precedence.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		AppID:         DefaultAppID,
		ShutdownGrace: 3 * time.Second,
		Backend: BackendConfig{
			LogMaxBytes:  10 << 20,
			LifecycleLog: true,
		},
	}
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file-based configuration.
//
// An empty configPath means the default location is tried and silently
// skipped when absent. An explicit path that does not exist is an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		if p, err := ConfigPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		err := cfg.loadFromFile(path)
		switch {
		case err == nil:
		case configPath == "" && errors.Is(err, fs.ErrNotExist):
			// Default config file is optional.
		default:
			return nil, &mkdscerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in zero values that a minimal file left empty.
func (c *Config) applyDefaults() {
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mkdscerrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv(EnvAppID); val != "" {
		c.AppID = val
	}
	if val := os.Getenv(EnvShutdownGrace); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return &mkdscerrors.ConfigError{
				Key:    "shutdown_grace",
				Reason: fmt.Sprintf("invalid %s %q", EnvShutdownGrace, val),
				Cause:  err,
			}
		}
		c.ShutdownGrace = d
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.AppID == "" || strings.ContainsAny(c.AppID, `/\`) || c.AppID == "." || c.AppID == ".." {
		return &mkdscerrors.ConfigError{Key: "app_id", Reason: fmt.Sprintf("must be a single path element, got %q", c.AppID)}
	}
	if c.ShutdownGrace < 0 {
		return &mkdscerrors.ConfigError{Key: "shutdown_grace", Reason: fmt.Sprintf("must not be negative, got %v", c.ShutdownGrace)}
	}
	if c.Backend.LogMaxBytes < 0 {
		return &mkdscerrors.ConfigError{Key: "backend.log_max_bytes", Reason: fmt.Sprintf("must not be negative, got %d", c.Backend.LogMaxBytes)}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return &mkdscerrors.ConfigError{Key: "log.level", Reason: fmt.Sprintf("must be one of [trace, debug, info, warn, error], got %q", c.Log.Level)}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return &mkdscerrors.ConfigError{Key: "log.format", Reason: fmt.Sprintf("must be one of [json, text], got %q", c.Log.Format)}
	}

	return nil
}
