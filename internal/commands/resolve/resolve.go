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

// Package resolve implements the resolve command, which reports where the
// backend would be launched from without launching it.
package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/mkdsc/internal/commands/shared"
	"github.com/tombee/mkdsc/internal/lifecycle"
	"github.com/tombee/mkdsc/internal/shell"
)

// NewCommand creates the resolve command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the resolved backend directories and launch order",
		Long: `Resolve the base and data directories the backend would be launched
with, along with the base directory candidates and the order in which
launch strategies are tried. Nothing is started or created.`,
		Args: cobra.NoArgs,
		RunE: runResolve,
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}

	host := shell.NewHeadless(cfg.AppID)
	res := lifecycle.NewSpawner(cfg, host, shared.NewLogger(cfg), nil).Describe()

	if shared.GetJSON() {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal resolution: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	base := res.BaseDir
	if res.Override {
		base += " (override)"
	}
	binary := res.Binary
	if binary == "" {
		binary = "(not found)"
	}

	cmd.Printf("base dir:    %s\n", base)
	cmd.Printf("data dir:    %s\n", res.DataDir)
	cmd.Printf("mode:        %s\n", res.Mode)
	cmd.Printf("strategies:  %s\n", strings.Join(res.Strategies, ", "))
	cmd.Printf("binary:      %s\n", binary)
	cmd.Printf("interpreter: %s\n", res.Interpreter)
	if !res.Override {
		cmd.Println("candidates:")
		for _, c := range res.Candidates {
			cmd.Printf("  %s\n", c)
		}
	}

	return nil
}
