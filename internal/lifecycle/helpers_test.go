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
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/log"
	"github.com/tombee/mkdsc/internal/paths"
)

// skipOnSpawnError skips when the environment blocks fork/exec.
func skipOnSpawnError(t *testing.T, err error) {
	t.Helper()
	if err != nil && strings.Contains(err.Error(), "operation not permitted") {
		t.Skipf("Skipping: spawn not permitted in this environment: %v", err)
	}
}

// requireShell skips tests that rely on sh and shebang scripts.
func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping: requires a POSIX shell")
	}
	if os.Getenv("SKIP_SPAWN_TESTS") != "" {
		t.Skip("Skipping spawn tests (SKIP_SPAWN_TESTS is set)")
	}
}

type dataLocator struct{ dir string }

func (l dataLocator) ResourceDir() (string, error) { return "", os.ErrNotExist }
func (l dataLocator) AppDataDir() (string, error)  { return l.dir, nil }

func lookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

// fixture is a base directory with a marker and a separate data dir.
type fixture struct {
	base string
	data string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		base: filepath.Join(root, "base"),
		data: filepath.Join(root, "data"),
	}
	if err := os.MkdirAll(f.base, 0o755); err != nil {
		t.Fatal(err)
	}
	return f
}

// writeBinary installs a shell script as bin/mkdsc-backend.
func (f fixture) writeBinary(t *testing.T, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(f.base, "bin", DefaultBackendName+ExeSuffix)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeScript installs tauri_backend.py; tests run it with MKDSC_PYTHON=sh.
func (f fixture) writeScript(t *testing.T, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(f.base, DefaultScript), []byte(body+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (f fixture) spawner(interactive bool, env map[string]string) *Spawner {
	return &Spawner{
		Resolver: &paths.Resolver{
			Locator:   dataLocator{dir: f.data},
			LookupEnv: lookup(map[string]string{config.EnvBaseDir: f.base}),
			Getwd:     func() (string, error) { return f.base, nil },
			Marker:    paths.MarkerFile,
		},
		Interactive:  interactive,
		LookupEnv:    lookup(env),
		LifecycleLog: true,
		Logger:       log.Discard(),
	}
}

// waitExit waits for the process to finish.
func waitExit(t *testing.T, p *Process) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		_ = p.Terminate(0)
		t.Fatal("backend did not exit")
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
