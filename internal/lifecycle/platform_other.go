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

//go:build !windows

package lifecycle

import (
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ExeSuffix is appended to native executable names.
const ExeSuffix = ""

const defaultInterpreter = "python3"

// applyNoWindow is a no-op outside Windows.
func applyNoWindow(_ *exec.Cmd) {}

func venvInterpreter(baseDir string) string {
	return filepath.Join(baseDir, ".venv", "bin", "python")
}

// terminate asks the process to exit.
func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
