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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LifecycleLogName is the JSON-lines audit log written next to backend.log.
const LifecycleLogName = "lifecycle.log"

// LifecycleEvent represents a lifecycle event (launch attempt, start, stop).
type LifecycleEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Event      string    `json:"event"` // "launch_attempt", "start_success", "stop", etc.
	LaunchID   string    `json:"launch_id,omitempty"`
	Strategy   string    `json:"strategy,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	PID        int       `json:"pid,omitempty"`
	Path       string    `json:"path,omitempty"`
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// LifecycleLogger appends backend lifecycle events to a file.
// All methods are no-ops on a nil receiver.
type LifecycleLogger struct {
	logPath  string
	launchID string
}

// NewLifecycleLogger creates a new lifecycle logger for one launch.
func NewLifecycleLogger(logPath, launchID string) *LifecycleLogger {
	return &LifecycleLogger{
		logPath:  logPath,
		launchID: launchID,
	}
}

// LogLaunchAttempt logs the outcome of one strategy.
func (l *LifecycleLogger) LogLaunchAttempt(strategy string, outcome Outcome, err error) error {
	event := LifecycleEvent{
		Event:    "launch_attempt",
		Strategy: strategy,
		Outcome:  outcome.String(),
		Success:  outcome == OutcomeStarted,
		Error:    errString(err),
	}
	return l.writeEvent(event)
}

// LogStartSuccess logs a started backend.
func (l *LifecycleLogger) LogStartSuccess(strategy string, pid int, path string, duration time.Duration) error {
	event := LifecycleEvent{
		Event:      "start_success",
		Strategy:   strategy,
		PID:        pid,
		Path:       path,
		Success:    true,
		Message:    "Backend started",
		DurationMs: duration.Milliseconds(),
	}
	return l.writeEvent(event)
}

// LogStartFailure logs that no backend could be started.
func (l *LifecycleLogger) LogStartFailure(err error) error {
	event := LifecycleEvent{
		Event:   "start_failure",
		Success: false,
		Message: "No backend could be started",
		Error:   errString(err),
	}
	return l.writeEvent(event)
}

// LogStop logs a termination request.
func (l *LifecycleLogger) LogStop(pid int, grace time.Duration) error {
	message := "Backend stop initiated"
	if grace <= 0 {
		message = "Backend kill initiated"
	}

	event := LifecycleEvent{
		Event:   "stop",
		PID:     pid,
		Success: true,
		Message: message,
	}
	return l.writeEvent(event)
}

// LogStopSuccess logs a backend that has exited.
func (l *LifecycleLogger) LogStopSuccess(pid int, duration time.Duration) error {
	event := LifecycleEvent{
		Event:      "stop_success",
		PID:        pid,
		Success:    true,
		Message:    fmt.Sprintf("Backend stopped (duration: %v)", duration),
		DurationMs: duration.Milliseconds(),
	}
	return l.writeEvent(event)
}

// LogStopFailure logs a failed termination.
func (l *LifecycleLogger) LogStopFailure(pid int, err error) error {
	event := LifecycleEvent{
		Event:   "stop_failure",
		PID:     pid,
		Success: false,
		Message: "Failed to stop backend",
		Error:   errString(err),
	}
	return l.writeEvent(event)
}

// writeEvent appends a lifecycle event to the log file.
func (l *LifecycleLogger) writeEvent(event LifecycleEvent) error {
	if l == nil {
		return nil
	}

	event.Timestamp = time.Now()
	event.LaunchID = l.launchID

	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open lifecycle log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
