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
)

// DefaultBackendName is the native backend executable, without suffix.
const DefaultBackendName = "mkdsc-backend"

// BinaryStrategy launches a native backend executable.
type BinaryStrategy struct {
	// Executable is the file name to look for. Defaults to
	// DefaultBackendName plus the platform suffix.
	Executable string
}

// Name implements Strategy.
func (BinaryStrategy) Name() string { return "binary" }

func (s BinaryStrategy) executable() string {
	if s.Executable != "" {
		return s.Executable
	}
	return DefaultBackendName + ExeSuffix
}

// Candidates returns the installed and build-tree locations, in order.
func (s BinaryStrategy) Candidates(baseDir string) []string {
	name := s.executable()
	return []string{
		filepath.Join(baseDir, "bin", name),
		filepath.Join(baseDir, "src-tauri", "bin", name),
	}
}

// Find returns the first existing candidate.
func (s BinaryStrategy) Find(baseDir string) (string, bool) {
	for _, path := range s.Candidates(baseDir) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Launch implements Strategy.
func (s BinaryStrategy) Launch(ctx context.Context, plan Plan) (*Process, error) {
	path, ok := s.Find(plan.BaseDir)
	if !ok {
		return nil, fmt.Errorf("%w: %s not found under %s", ErrNoCandidate, s.executable(), plan.BaseDir)
	}

	return startCommand(exec.Command(path), plan, s.Name())
}
