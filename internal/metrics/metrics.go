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

// Package metrics exposes Prometheus collectors for the backend supervisor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Launch attempt outcomes.
const (
	OutcomeStarted     = "started"
	OutcomeNoCandidate = "no_candidate"
	OutcomeError       = "error"
)

// Collector records supervisor metrics. A nil *Collector is a valid no-op.
type Collector struct {
	launchAttempts *prometheus.CounterVec
	shutdowns      prometheus.Counter
	backendUp      prometheus.Gauge
}

// New registers the supervisor collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		launchAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mkdsc_backend_launch_attempts_total",
				Help: "Backend launch attempts by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		shutdowns: factory.NewCounter(prometheus.CounterOpts{
			Name: "mkdsc_backend_shutdowns_total",
			Help: "Backend processes terminated by a shutdown event",
		}),
		backendUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mkdsc_backend_up",
			Help: "1 while the supervisor owns a running backend process",
		}),
	}
}

// RecordLaunchAttempt increments the launch attempt counter.
// outcome should be one of: started, no_candidate, error
func (c *Collector) RecordLaunchAttempt(strategy, outcome string) {
	if c == nil {
		return
	}
	c.launchAttempts.WithLabelValues(strategy, outcome).Inc()
}

// RecordShutdown counts a terminated backend.
func (c *Collector) RecordShutdown() {
	if c == nil {
		return
	}
	c.shutdowns.Inc()
}

// SetBackendUp sets the backend_up gauge.
func (c *Collector) SetBackendUp(up bool) {
	if c == nil {
		return
	}
	if up {
		c.backendUp.Set(1)
	} else {
		c.backendUp.Set(0)
	}
}
