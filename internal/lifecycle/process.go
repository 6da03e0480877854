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
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Process is a running backend started by a Strategy.
//
// A single goroutine reaps the child, so Done and Terminate may be used
// from any goroutine.
type Process struct {
	cmd      *exec.Cmd
	strategy string
	events   *LifecycleLogger

	done    chan struct{}
	waitErr error
}

// startProcess starts cmd and begins reaping it.
func startProcess(cmd *exec.Cmd, strategy string) (*Process, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &Process{
		cmd:      cmd,
		strategy: strategy,
		done:     make(chan struct{}),
	}
	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.done)
}

// Pid returns the backend's process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Path returns the executable that was started.
func (p *Process) Path() string {
	return p.cmd.Path
}

// Args returns the command line, including the executable.
func (p *Process) Args() []string {
	return p.cmd.Args
}

// Strategy names the mechanism that started the process.
func (p *Process) Strategy() string {
	return p.strategy
}

// Done is closed once the process has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns the exit error after Done is closed, nil before.
func (p *Process) Err() error {
	select {
	case <-p.done:
		return p.waitErr
	default:
		return nil
	}
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Terminate stops the process and waits for it to exit.
//
// With a positive grace period the platform termination signal is sent
// first and the process is killed if it is still running after grace.
// Otherwise it is killed immediately. Terminating an exited process is a no-op.
func (p *Process) Terminate(grace time.Duration) error {
	if p.Exited() {
		return nil
	}

	start := time.Now()
	pid := p.Pid()
	_ = p.events.LogStop(pid, grace)

	if grace > 0 {
		if err := terminate(p.cmd.Process); err == nil {
			timer := time.NewTimer(grace)
			defer timer.Stop()

			select {
			case <-p.done:
				_ = p.events.LogStopSuccess(pid, time.Since(start))
				return nil
			case <-timer.C:
			}
		}
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		err = fmt.Errorf("failed to kill process %d: %w", pid, err)
		_ = p.events.LogStopFailure(pid, err)
		return err
	}

	<-p.done
	_ = p.events.LogStopSuccess(pid, time.Since(start))
	return nil
}
