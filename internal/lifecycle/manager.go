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
	"log/slog"
	"sync"
	"time"

	"github.com/tombee/mkdsc/internal/log"
	"github.com/tombee/mkdsc/internal/metrics"
)

// Handle is a running backend.
type Handle interface {
	Pid() int
	Done() <-chan struct{}
	Terminate(grace time.Duration) error
}

// Launcher starts a backend.
type Launcher interface {
	Launch(ctx context.Context) (Handle, error)
}

// Manager ties the backend to the host lifecycle.
type Manager struct {
	launcher Launcher
	logger   *slog.Logger
	metrics  *metrics.Collector
	grace    time.Duration

	state BackendState

	exitOnce sync.Once
	exited   chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithGracePeriod sets how long Terminate waits before killing.
// Zero kills immediately.
func WithGracePeriod(d time.Duration) Option {
	return func(m *Manager) { m.grace = d }
}

// WithMetrics records shutdowns and the backend_up gauge.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// NewManager creates a Manager. logger may be nil.
func NewManager(launcher Launcher, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	m := &Manager{
		launcher: launcher,
		logger:   logger,
		exited:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Setup launches the backend and takes ownership of it. A failure must
// abort host startup.
func (m *Manager) Setup(ctx context.Context) error {
	h, err := m.launcher.Launch(ctx)
	if err != nil {
		return err
	}

	if err := m.state.Store(h); err != nil {
		_ = h.Terminate(0)
		return err
	}
	m.metrics.SetBackendUp(true)

	go m.watch(h)
	return nil
}

// watch closes Exited when the backend ends on its own.
func (m *Manager) watch(h Handle) {
	<-h.Done()
	m.exitOnce.Do(func() { close(m.exited) })
}

// Exited is closed once the launched backend has exited, for any reason.
func (m *Manager) Exited() <-chan struct{} {
	return m.exited
}

// Running reports whether the manager still owns a backend.
func (m *Manager) Running() bool {
	return m.state.Running()
}

// Shutdown terminates the owned backend, if any, and waits for it.
// It reports whether this call terminated a backend; later calls are
// no-ops.
func (m *Manager) Shutdown() bool {
	h := m.state.Take()
	if h == nil {
		return false
	}

	pid := h.Pid()
	if err := h.Terminate(m.grace); err != nil {
		m.logger.Debug("backend termination error ignored", slog.Int(log.PIDKey, pid), log.Error(err))
	}

	m.metrics.RecordShutdown()
	m.metrics.SetBackendUp(false)
	m.logger.Info("backend stopped", slog.Int(log.PIDKey, pid))
	return true
}

// HandleEvent shuts the backend down for close and exit events. Other
// events are ignored. It reports whether a backend was terminated.
func (m *Manager) HandleEvent(e Event) bool {
	if !e.TriggersShutdown() {
		return false
	}
	m.logger.Debug("shutdown event", slog.String(log.EventKey, e.String()))
	return m.Shutdown()
}
