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

// Package run implements the run command, which launches the backend and
// supervises it until the host exits.
package run

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the backend and supervise it until exit",
		Annotations: map[string]string{
			"group": "execution",
		},
		Long: `Run resolves the backend's base and data directories, launches it, and
keeps it running until an interrupt or terminate signal arrives.

Launch order:
  packaged builds      native binary, then interpreter
  interactive builds   interpreter, then native binary
  MKDSC_FORCE_PYTHON   forces interpreter first in any build

Signals:
  SIGINT, SIGTERM      stop the backend and exit
  SIGHUP               stop the backend (window close)

Exit codes:
  0  clean shutdown
  2  invalid configuration
  3  no backend could be started`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupervisor(cmd.Context(), Options{MetricsAddr: metricsAddr})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (for example 127.0.0.1:9464)")

	return cmd
}
