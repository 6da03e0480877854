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

package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tombee/mkdsc/internal/commands/shared"
	"github.com/tombee/mkdsc/internal/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration",
		Long: `View mkdsc configuration.

Subcommands:
  show - Display the effective configuration
  path - Show config file location`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigPathCommand())

	// If no subcommand provided, default to 'show'
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd, args)
	}

	return cmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration: defaults, then the config file,
then environment overrides. Use --json for machine-readable output.`,
		RunE: runConfigShow,
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file location",
		Long:  `Display the path to the configuration file.`,
		RunE:  runConfigPath,
	}
}

// configView is the JSON form of config.Config.
type configView struct {
	AppID         string `json:"app_id"`
	ShutdownGrace string `json:"shutdown_grace"`
	Backend       struct {
		LogMaxBytes  int64 `json:"log_max_bytes"`
		LifecycleLog bool  `json:"lifecycle_log"`
	} `json:"backend"`
	Log config.LogConfig `json:"log"`
}

func viewOf(cfg *config.Config) configView {
	v := configView{
		AppID:         cfg.AppID,
		ShutdownGrace: cfg.ShutdownGrace.String(),
		Log:           cfg.Log,
	}
	v.Backend.LogMaxBytes = cfg.Backend.LogMaxBytes
	v.Backend.LifecycleLog = cfg.Backend.LifecycleLog
	return v
}

// runConfigShow displays the effective configuration
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}

	if shared.GetJSON() {
		data, err := json.MarshalIndent(viewOf(cfg), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cfgPath, err := configPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration: %s\n", cfgPath)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out)

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)

	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return encoder.Close()
}

// runConfigPath displays the config file path
func runConfigPath(cmd *cobra.Command, args []string) error {
	cfgPath, err := configPath()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
	return nil
}

func configPath() (string, error) {
	if p := shared.GetConfigPath(); p != "" {
		return p, nil
	}
	p, err := config.ConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to determine config path: %w", err)
	}
	return p, nil
}
