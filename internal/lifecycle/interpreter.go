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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tombee/mkdsc/internal/config"
)

// DefaultScript is the companion script under the base directory.
const DefaultScript = "tauri_backend.py"

// InterpreterStrategy runs the backend script through an interpreter.
type InterpreterStrategy struct {
	// Script is relative to the base directory. Defaults to DefaultScript.
	Script string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Name implements Strategy.
func (InterpreterStrategy) Name() string { return "interpreter" }

func (s InterpreterStrategy) script(baseDir string) string {
	name := s.Script
	if name == "" {
		name = DefaultScript
	}
	return filepath.Join(baseDir, name)
}

// Interpreter picks the interpreter: MKDSC_PYTHON, then the base
// directory's virtual environment, then the platform default.
func (s InterpreterStrategy) Interpreter(baseDir string) string {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(config.EnvInterpreter); ok && value != "" {
		return value
	}

	venv := venvInterpreter(baseDir)
	if _, err := os.Stat(venv); err == nil {
		return venv
	}
	return defaultInterpreter
}

// Launch implements Strategy. A missing script is ErrNoCandidate; a
// missing interpreter is a start failure.
func (s InterpreterStrategy) Launch(ctx context.Context, plan Plan) (*Process, error) {
	script := s.script(plan.BaseDir)
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidate, err)
	}

	cmd := exec.Command(s.Interpreter(plan.BaseDir), script)
	return startCommand(cmd, plan, s.Name())
}
