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
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/log"
	"github.com/tombee/mkdsc/internal/metrics"
	"github.com/tombee/mkdsc/internal/paths"
)

// Spawner resolves the backend's directories and launches it through the
// strategy chain.
type Spawner struct {
	Resolver *paths.Resolver

	// Interactive selects console output and interpreter-first ordering.
	Interactive bool

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// LogMaxBytes is the backend.log rotation threshold.
	LogMaxBytes int64

	// LifecycleLog enables the JSON-lines lifecycle.log.
	LifecycleLog bool

	Logger  *slog.Logger
	Metrics *metrics.Collector

	Binary      BinaryStrategy
	Interpreter InterpreterStrategy
}

// NewSpawner creates a Spawner for the current build mode. cfg and
// collector may be nil.
func NewSpawner(cfg *config.Config, loc paths.Locator, logger *slog.Logger, collector *metrics.Collector) *Spawner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Discard()
	}

	return &Spawner{
		Resolver:     paths.NewResolver(loc),
		Interactive:  config.Interactive(),
		LookupEnv:    os.LookupEnv,
		LogMaxBytes:  cfg.Backend.LogMaxBytes,
		LifecycleLog: cfg.Backend.LifecycleLog,
		Logger:       log.WithComponent(logger, "lifecycle"),
		Metrics:      collector,
	}
}

func (s *Spawner) lookupEnv(key string) (string, bool) {
	if s.LookupEnv == nil {
		return os.LookupEnv(key)
	}
	return s.LookupEnv(key)
}

func (s *Spawner) logger() *slog.Logger {
	if s.Logger == nil {
		return log.Discard()
	}
	return s.Logger
}

// PreferInterpreter reports whether the interpreter is tried first: in
// interactive builds, or when MKDSC_FORCE_PYTHON is present with any value.
func (s *Spawner) PreferInterpreter() bool {
	if s.Interactive {
		return true
	}
	_, forced := s.lookupEnv(config.EnvForceInterpreter)
	return forced
}

// interpreter reads MKDSC_PYTHON through the Spawner's environment.
func (s *Spawner) interpreter() InterpreterStrategy {
	interp := s.Interpreter
	if interp.LookupEnv == nil {
		interp.LookupEnv = s.lookupEnv
	}
	return interp
}

// Strategies returns the launch order.
func (s *Spawner) Strategies() []Strategy {
	interp := s.interpreter()
	if s.PreferInterpreter() {
		return []Strategy{interp, s.Binary}
	}
	return []Strategy{s.Binary, interp}
}

// Resolution is what the Spawner would launch, without launching it.
type Resolution struct {
	BaseDir     string   `json:"base_dir"`
	DataDir     string   `json:"data_dir"`
	Override    bool     `json:"override"`
	Candidates  []string `json:"candidates"`
	Mode        string   `json:"mode"`
	Strategies  []string `json:"strategies"`
	Binary      string   `json:"binary,omitempty"`
	Interpreter string   `json:"interpreter"`
}

// Describe resolves directories and strategy order.
func (s *Spawner) Describe() Resolution {
	base := s.Resolver.BaseDir()
	_, override := s.Resolver.Override()

	res := Resolution{
		BaseDir:     base,
		DataDir:     s.Resolver.DataDir(base),
		Override:    override,
		Candidates:  s.Resolver.Candidates(),
		Mode:        "packaged",
		Interpreter: s.interpreter().Interpreter(base),
	}
	if s.Interactive {
		res.Mode = "interactive"
	}
	if bin, ok := s.Binary.Find(base); ok {
		res.Binary = bin
	}
	for _, st := range s.Strategies() {
		res.Strategies = append(res.Strategies, st.Name())
	}
	return res
}

// Spawn resolves directories, creates the data directory and runs the
// strategy chain. The error wraps ErrNoBackend when nothing started.
func (s *Spawner) Spawn(ctx context.Context) (*Process, error) {
	start := time.Now()
	launchID := uuid.NewString()
	logger := log.WithLaunch(s.logger(), launchID)

	// Candidate paths are resolved against cmd.Dir, so both must be absolute.
	base := absPath(s.Resolver.BaseDir())
	data := absPath(s.Resolver.DataDir(base))
	logger.Debug("resolved backend directories", slog.String("base_dir", base), slog.String("data_dir", data))

	for _, candidate := range s.Resolver.Candidates() {
		log.Trace(logger, "base directory candidate", slog.String("path", candidate))
	}

	if err := os.MkdirAll(data, 0o755); err != nil {
		logger.Warn("cannot create data directory", slog.String("dir", data), log.Error(err))
	}

	var events *LifecycleLogger
	if s.LifecycleLog {
		events = NewLifecycleLogger(filepath.Join(LogDir(data), LifecycleLogName), launchID)
	}

	plan := Plan{
		BaseDir: base,
		DataDir: data,
		Env:     childEnv(base, data),
		Stdio: StdioPolicy{
			Interactive: s.Interactive,
			MaxLogBytes: s.LogMaxBytes,
			Logger:      logger,
		},
	}

	observe := func(strategy string, outcome Outcome, err error) {
		s.Metrics.RecordLaunchAttempt(strategy, outcome.String())
		_ = events.LogLaunchAttempt(strategy, outcome, err)

		attrs := []any{slog.String(log.StrategyKey, strategy), slog.String("outcome", outcome.String())}
		switch outcome {
		case OutcomeError:
			logger.Warn("backend launch attempt failed", append(attrs, log.Error(err))...)
		case OutcomeNoCandidate:
			logger.Debug("backend launch candidate not found", append(attrs, log.Error(err))...)
		}
	}

	proc, err := Chain(ctx, plan, observe, s.Strategies()...)
	if err != nil {
		_ = events.LogStartFailure(err)
		logger.Error("backend could not be started", log.Error(err))
		return nil, err
	}

	proc.events = events
	_ = events.LogStartSuccess(proc.Strategy(), proc.Pid(), proc.Path(), time.Since(start))
	logger.Info("backend started",
		slog.String(log.StrategyKey, proc.Strategy()),
		slog.Int(log.PIDKey, proc.Pid()),
		slog.String("path", proc.Path()),
	)
	return proc, nil
}

// Launch implements Launcher.
func (s *Spawner) Launch(ctx context.Context) (Handle, error) {
	proc, err := s.Spawn(ctx)
	if err != nil {
		return nil, err
	}
	return proc, nil
}
