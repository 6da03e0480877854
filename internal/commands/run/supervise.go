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

package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tombee/mkdsc/internal/commands/shared"
	"github.com/tombee/mkdsc/internal/lifecycle"
	"github.com/tombee/mkdsc/internal/log"
	"github.com/tombee/mkdsc/internal/metrics"
	"github.com/tombee/mkdsc/internal/shell"
)

// Options configures runSupervisor.
type Options struct {
	// MetricsAddr serves /metrics when non-empty.
	MetricsAddr string
}

func runSupervisor(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.NewLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(reg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.MetricsAddr != "" {
		_, stop, err := serveMetrics(opts.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	host := shell.NewHeadless(cfg.AppID)
	spawner := lifecycle.NewSpawner(cfg, host, logger, collector)
	manager := lifecycle.NewManager(spawner, logger,
		lifecycle.WithGracePeriod(cfg.ShutdownGrace),
		lifecycle.WithMetrics(collector),
	)

	// Subscribe before setup so a signal during launch is not lost.
	events := host.Events(ctx)

	if err := manager.Setup(ctx); err != nil {
		return shared.NewBackendError("failed to start backend", err)
	}

	supervise(ctx, manager, events, logger)
	return nil
}

// supervise dispatches host events to the manager until EventExit, the
// event stream ends, or ctx is done. The backend is always shut down on
// return.
func supervise(ctx context.Context, m *lifecycle.Manager, events <-chan lifecycle.Event, logger *slog.Logger) {
	defer m.Shutdown()

	exited := m.Exited()
	for {
		select {
		case <-ctx.Done():
			return

		case e, ok := <-events:
			if !ok {
				return
			}
			m.HandleEvent(e)
			if e == lifecycle.EventExit {
				return
			}

		case <-exited:
			exited = nil
			if m.Running() {
				logger.Warn("backend exited on its own; it will not be restarted")
			}
		}
	}
}

// serveMetrics starts the metrics listener. It returns the bound address
// and a shutdown func.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", log.Error(err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return ln.Addr().String(), func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}
