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

package shared

import (
	"log/slog"
	"strings"

	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/log"
)

// LoadConfig loads configuration from --config or the default location.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// NewLogger builds the command logger. Precedence, lowest first: the
// config file, the environment, then --verbose or --quiet.
func NewLogger(cfg *config.Config) *slog.Logger {
	logCfg := log.DefaultConfig()
	if cfg != nil {
		if cfg.Log.Level != "" {
			logCfg.Level = cfg.Log.Level
		}
		if cfg.Log.Format != "" {
			logCfg.Format = log.Format(strings.ToLower(cfg.Log.Format))
		}
	}
	logCfg = log.ApplyEnv(logCfg)

	switch {
	case GetVerbose():
		logCfg.Level = "debug"
	case GetQuiet():
		logCfg.Level = "warn"
	}

	return log.New(logCfg)
}
