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
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tombee/mkdsc/internal/metrics"
)

var (
	// ErrNoCandidate is returned by a Strategy that found nothing to launch.
	// It is a soft failure; the next strategy is tried.
	ErrNoCandidate = errors.New("no launch candidate")

	// ErrNoBackend is wrapped by every error returned when no strategy
	// produced a running backend.
	ErrNoBackend = errors.New("no backend could be started")
)

// Outcome classifies a single launch attempt.
type Outcome int

const (
	OutcomeStarted Outcome = iota
	OutcomeNoCandidate
	OutcomeError
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return metrics.OutcomeStarted
	case OutcomeNoCandidate:
		return metrics.OutcomeNoCandidate
	case OutcomeError:
		return metrics.OutcomeError
	default:
		return "unknown"
	}
}

// Plan is everything a strategy needs to launch the backend.
type Plan struct {
	BaseDir string
	DataDir string

	// Env is the complete child environment.
	Env []string

	Stdio StdioPolicy
}

// Strategy is one way of launching the backend.
//
// Launch returns a running process, an error wrapping ErrNoCandidate when
// it has nothing to launch, or any other error when starting failed.
type Strategy interface {
	Name() string
	Launch(ctx context.Context, plan Plan) (*Process, error)
}

// Observer is told the outcome of every attempt Chain makes.
type Observer func(strategy string, outcome Outcome, err error)

// LaunchError reports that every strategy was exhausted.
// errors.Is(err, ErrNoBackend) holds, as does errors.Is for each hard error.
type LaunchError struct {
	// Attempted lists strategy names in the order they were tried.
	Attempted []string

	// Errors holds the hard failures, one per failed strategy.
	Errors []error
}

func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("%s (tried: %s)", ErrNoBackend, strings.Join(e.Attempted, ", "))
	if len(e.Errors) == 0 {
		return msg + ": no launch candidate found"
	}
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return msg + ": " + strings.Join(parts, "; ")
}

func (e *LaunchError) Unwrap() []error {
	return append([]error{ErrNoBackend}, e.Errors...)
}

// Chain tries strategies in order and returns the first running process.
// observe may be nil.
func Chain(ctx context.Context, plan Plan, observe Observer, strategies ...Strategy) (*Process, error) {
	launchErr := &LaunchError{}

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			launchErr.Errors = append(launchErr.Errors, err)
			return nil, launchErr
		}

		launchErr.Attempted = append(launchErr.Attempted, s.Name())
		proc, err := s.Launch(ctx, plan)

		outcome := OutcomeStarted
		switch {
		case err == nil && proc != nil:
		case err == nil, errors.Is(err, ErrNoCandidate):
			outcome = OutcomeNoCandidate
		default:
			outcome = OutcomeError
		}
		if observe != nil {
			observe(s.Name(), outcome, err)
		}

		switch outcome {
		case OutcomeStarted:
			return proc, nil
		case OutcomeError:
			launchErr.Errors = append(launchErr.Errors, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}

	return nil, launchErr
}

// startCommand applies the plan's directory, environment, stdio and
// platform flags to cmd and starts it.
func startCommand(cmd *exec.Cmd, plan Plan, strategy string) (*Process, error) {
	cmd.Dir = plan.BaseDir
	cmd.Env = plan.Env

	closer := plan.Stdio.Configure(cmd, plan.DataDir)
	applyNoWindow(cmd)

	proc, err := startProcess(cmd, strategy)
	_ = closer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return proc, nil
}
