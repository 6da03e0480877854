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
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tombee/mkdsc/internal/log"
)

// BackendLogName is the combined stdout/stderr log written in packaged mode.
const BackendLogName = "backend.log"

// LogDir returns the log directory under a data directory.
func LogDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// StdioPolicy decides where the backend's stdout and stderr go.
type StdioPolicy struct {
	// Interactive makes the backend inherit the supervisor's console.
	Interactive bool

	// MaxLogBytes rotates backend.log to backend.log.1 when it is larger.
	// Zero disables rotation.
	MaxLogBytes int64

	Logger *slog.Logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ConfigureStdio applies the default policy for the given mode.
func ConfigureStdio(cmd *exec.Cmd, dataDir string, interactive bool) io.Closer {
	return StdioPolicy{Interactive: interactive}.Configure(cmd, dataDir)
}

// Configure sets cmd's stdout and stderr. It never fails: when the log file
// cannot be prepared both streams are discarded.
//
// The returned closer releases the supervisor's copy of the log file and
// must be called once the command has been started (or failed to start).
func (p StdioPolicy) Configure(cmd *exec.Cmd, dataDir string) io.Closer {
	if p.Interactive {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return nopCloser{}
	}

	logger := p.Logger
	if logger == nil {
		logger = log.Discard()
	}

	logDir := LogDir(dataDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logger.Warn("backend output discarded: cannot create log directory", slog.String("dir", logDir), log.Error(err))
		discard(cmd)
		return nopCloser{}
	}

	logPath := filepath.Join(logDir, BackendLogName)
	rotate(logPath, p.MaxLogBytes)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Warn("backend output discarded: cannot open log file", slog.String("path", logPath), log.Error(err))
		discard(cmd)
		return nopCloser{}
	}

	// One *os.File for both streams: the child's fds 1 and 2 share a
	// single open file description and its append offset.
	cmd.Stdout = file
	cmd.Stderr = file
	return file
}

// discard sends both streams to the null device.
func discard(cmd *exec.Cmd) {
	cmd.Stdout = nil
	cmd.Stderr = nil
}

// rotate moves path to path.1 once it exceeds maxBytes. Errors are ignored.
func rotate(path string, maxBytes int64) {
	if maxBytes <= 0 {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxBytes {
		return
	}
	_ = os.Rename(path, path+".1")
}
