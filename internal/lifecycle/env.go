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

package lifecycle

import (
	"os"
	"path/filepath"

	"github.com/tombee/mkdsc/internal/config"
)

// Environment returns the fixed environment contract handed to the backend.
// Directories are made absolute when possible.
func Environment(baseDir, dataDir string) []string {
	return []string{
		config.EnvBaseDir + "=" + absPath(baseDir),
		config.EnvDataDir + "=" + absPath(dataDir),
		config.EnvHost + "=" + config.BackendHost,
		config.EnvPort + "=" + config.BackendPort,
		config.EnvAutoOpen + "=" + config.BackendAutoOpen,
	}
}

// childEnv is the supervisor's environment followed by the contract.
// Later entries win in exec, so the contract overrides inherited values.
func childEnv(baseDir, dataDir string) []string {
	return append(os.Environ(), Environment(baseDir, dataDir)...)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
