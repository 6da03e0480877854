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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func clearLogEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MKDSC_DEBUG", "MKDSC_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatJSON && cfg.Format != FormatText {
		t.Errorf("unexpected default format %q", cfg.Format)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected default output to be os.Stderr")
	}
	if cfg.AddSource {
		t.Errorf("expected default AddSource to be false")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		level     string
		format    Format
		addSource bool
	}{
		{
			name:   "defaults when no env vars",
			level:  "info",
			format: FormatJSON,
		},
		{
			name:    "LOG_LEVEL=DEBUG (case insensitive)",
			envVars: map[string]string{"LOG_LEVEL": "DEBUG"},
			level:   "debug",
			format:  FormatJSON,
		},
		{
			name:    "MKDSC_LOG_LEVEL wins over LOG_LEVEL",
			envVars: map[string]string{"MKDSC_LOG_LEVEL": "warn", "LOG_LEVEL": "error"},
			level:   "warn",
			format:  FormatJSON,
		},
		{
			name:      "MKDSC_DEBUG wins over everything",
			envVars:   map[string]string{"MKDSC_DEBUG": "1", "MKDSC_LOG_LEVEL": "error"},
			level:     "debug",
			format:    FormatJSON,
			addSource: true,
		},
		{
			name:      "format and source",
			envVars:   map[string]string{"LOG_FORMAT": "TEXT", "LOG_SOURCE": "1"},
			level:     "info",
			format:    FormatText,
			addSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLogEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := ApplyEnv(&Config{Level: "info", Format: FormatJSON, Output: os.Stderr})

			if cfg.Level != tt.level {
				t.Errorf("expected level %q, got %q", tt.level, cfg.Level)
			}
			if cfg.Format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, cfg.Format)
			}
			if cfg.AddSource != tt.addSource {
				t.Errorf("expected AddSource %v, got %v", tt.addSource, cfg.AddSource)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{Level: "debug", Format: FormatJSON, Output: &buf})
	logger.Info("backend started", PIDKey, 42)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v", err)
	}
	if entry["msg"] != "backend started" {
		t.Errorf("expected msg 'backend started', got: %v", entry["msg"])
	}
	if entry[PIDKey] != float64(42) {
		t.Errorf("expected pid 42, got: %v", entry[PIDKey])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})
	logger.Info("resolved", "base_dir", "/opt/app")

	output := buf.String()
	if !strings.Contains(output, "msg=resolved") || !strings.Contains(output, "base_dir=/opt/app") {
		t.Errorf("unexpected text output: %s", output)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{Level: "warn", Format: FormatJSON, Output: &buf})
	logger.Info("dropped")
	logger.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("warn message missing: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer

	Trace(New(&Config{Level: "debug", Format: FormatJSON, Output: &buf}), "candidate checked")
	if buf.Len() != 0 {
		t.Errorf("trace should be suppressed at debug level: %s", buf.String())
	}

	Trace(New(&Config{Level: "trace", Format: FormatJSON, Output: &buf}), "candidate checked", slog.String("path", "/tmp"))
	if !strings.Contains(buf.String(), "candidate checked") {
		t.Errorf("trace should be emitted at trace level: %s", buf.String())
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	WithLaunch(WithComponent(base, "lifecycle"), "abc").Error("failed", Error(errors.New("boom")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["component"] != "lifecycle" || entry[LaunchIDKey] != "abc" || entry["error"] != "boom" {
		t.Errorf("unexpected entry: %v", entry)
	}
}
