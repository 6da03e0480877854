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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mkdsc/internal/config"
)

type fakeStrategy struct {
	name  string
	proc  *Process
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Launch(context.Context, Plan) (*Process, error) {
	f.calls++
	return f.proc, f.err
}

type observed struct {
	strategy string
	outcome  Outcome
}

func TestChain(t *testing.T) {
	started := &Process{strategy: "started"}
	hard := errors.New("exec format error")

	tests := []struct {
		name       string
		strategies []*fakeStrategy
		wantProc   bool
		wantCalls  []int
		wantSeen   []observed
		wantErrs   int
	}{
		{
			name: "first wins",
			strategies: []*fakeStrategy{
				{name: "a", proc: started},
				{name: "b", proc: started},
			},
			wantProc:  true,
			wantCalls: []int{1, 0},
			wantSeen:  []observed{{"a", OutcomeStarted}},
		},
		{
			name: "no candidate falls through",
			strategies: []*fakeStrategy{
				{name: "a", err: fmt.Errorf("%w: missing", ErrNoCandidate)},
				{name: "b", proc: started},
			},
			wantProc:  true,
			wantCalls: []int{1, 1},
			wantSeen:  []observed{{"a", OutcomeNoCandidate}, {"b", OutcomeStarted}},
		},
		{
			name: "hard error falls through",
			strategies: []*fakeStrategy{
				{name: "a", err: hard},
				{name: "b", proc: started},
			},
			wantProc:  true,
			wantCalls: []int{1, 1},
			wantSeen:  []observed{{"a", OutcomeError}, {"b", OutcomeStarted}},
		},
		{
			name: "nil process without error is no candidate",
			strategies: []*fakeStrategy{
				{name: "a"},
			},
			wantCalls: []int{1},
			wantSeen:  []observed{{"a", OutcomeNoCandidate}},
		},
		{
			name: "all fail",
			strategies: []*fakeStrategy{
				{name: "a", err: hard},
				{name: "b", err: ErrNoCandidate},
			},
			wantCalls: []int{1, 1},
			wantSeen:  []observed{{"a", OutcomeError}, {"b", OutcomeNoCandidate}},
			wantErrs:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []observed
			observe := func(name string, outcome Outcome, _ error) {
				seen = append(seen, observed{name, outcome})
			}

			strategies := make([]Strategy, len(tt.strategies))
			for i, s := range tt.strategies {
				strategies[i] = s
			}

			proc, err := Chain(context.Background(), Plan{}, observe, strategies...)
			if tt.wantProc {
				require.NoError(t, err)
				assert.Same(t, started, proc)
			} else {
				require.Error(t, err)
				assert.Nil(t, proc)
				assert.True(t, errors.Is(err, ErrNoBackend))

				var launchErr *LaunchError
				require.True(t, errors.As(err, &launchErr))
				assert.Len(t, launchErr.Errors, tt.wantErrs)
			}

			for i, s := range tt.strategies {
				assert.Equal(t, tt.wantCalls[i], s.calls, "calls to %s", s.name)
			}
			assert.Equal(t, tt.wantSeen, seen)
		})
	}
}

func TestChain_EmptyAndNilObserver(t *testing.T) {
	_, err := Chain(context.Background(), Plan{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBackend))

	_, err = Chain(context.Background(), Plan{}, nil, &fakeStrategy{name: "a", err: ErrNoCandidate})
	assert.True(t, errors.Is(err, ErrNoBackend))
}

func TestLaunchError(t *testing.T) {
	hard := errors.New("permission denied")
	err := &LaunchError{
		Attempted: []string{"binary", "interpreter"},
		Errors:    []error{fmt.Errorf("binary: %w", hard)},
	}

	assert.Equal(t, "no backend could be started (tried: binary, interpreter): binary: permission denied", err.Error())
	assert.True(t, errors.Is(err, hard))
	assert.True(t, errors.Is(err, ErrNoBackend))

	empty := &LaunchError{Attempted: []string{"binary"}}
	assert.Equal(t, "no backend could be started (tried: binary): no launch candidate found", empty.Error())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "started", OutcomeStarted.String())
	assert.Equal(t, "no_candidate", OutcomeNoCandidate.String())
	assert.Equal(t, "error", OutcomeError.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}

func TestBinaryStrategy_Candidates(t *testing.T) {
	base := filepath.Join("opt", "app")
	name := DefaultBackendName + ExeSuffix

	assert.Equal(t, []string{
		filepath.Join(base, "bin", name),
		filepath.Join(base, "src-tauri", "bin", name),
	}, BinaryStrategy{}.Candidates(base))

	assert.Equal(t, filepath.Join(base, "bin", "custom"), BinaryStrategy{Executable: "custom"}.Candidates(base)[0])
}

func TestBinaryStrategy_FindSkipsDirectories(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "bin", DefaultBackendName+ExeSuffix), 0o755))

	_, ok := BinaryStrategy{}.Find(base)
	assert.False(t, ok)

	_, err := BinaryStrategy{}.Launch(context.Background(), Plan{BaseDir: base})
	assert.True(t, errors.Is(err, ErrNoCandidate))
}

func TestInterpreterStrategy_Interpreter(t *testing.T) {
	base := t.TempDir()

	s := InterpreterStrategy{LookupEnv: lookup(nil)}
	assert.Equal(t, defaultInterpreter, s.Interpreter(base))

	venv := venvInterpreter(base)
	require.NoError(t, os.MkdirAll(filepath.Dir(venv), 0o755))
	require.NoError(t, os.WriteFile(venv, nil, 0o755))
	assert.Equal(t, venv, s.Interpreter(base))

	s.LookupEnv = lookup(map[string]string{config.EnvInterpreter: "/usr/local/bin/python3.11"})
	assert.Equal(t, "/usr/local/bin/python3.11", s.Interpreter(base))

	s.LookupEnv = lookup(map[string]string{config.EnvInterpreter: ""})
	assert.Equal(t, venv, s.Interpreter(base), "empty override is ignored")
}

func TestInterpreterStrategy_MissingScript(t *testing.T) {
	s := InterpreterStrategy{LookupEnv: lookup(nil)}

	proc, err := s.Launch(context.Background(), Plan{BaseDir: t.TempDir()})
	assert.Nil(t, proc)
	assert.True(t, errors.Is(err, ErrNoCandidate))
}
