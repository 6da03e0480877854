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

/*
Package lifecycle launches the companion backend and owns its process handle.

The backend is either a native executable shipped under the base directory
or a script run through an interpreter. Each mechanism is a Strategy; a
Spawner orders them by execution mode and runs them through Chain, which
stops at the first strategy that produces a running process:

	spawner := lifecycle.NewSpawner(cfg, shell, logger, collector)
	proc, err := spawner.Spawn(ctx)
	if err != nil {
	    // No backend could be started: abort startup.
	}

In interactive builds, or when MKDSC_FORCE_PYTHON is set, the interpreter
is tried first and the binary is the fallback. Packaged builds try the
binary first.

# Output

Interactive builds let the backend inherit the supervisor's stdout and
stderr. Packaged builds append both streams to <data_dir>/logs/backend.log
through a single shared file description. If the log cannot be opened the
streams go to the null device and the launch proceeds.

# Ownership

A Manager stores the single live Handle in a BackendState guarded by a
mutex. Shutdown events take the handle out under the lock and terminate
it after releasing the lock, so only the first event terminates anything:

	manager := lifecycle.NewManager(spawner, logger)
	if err := manager.Setup(ctx); err != nil {
	    return err
	}
	manager.HandleEvent(lifecycle.EventExitRequested) // terminates
	manager.HandleEvent(lifecycle.EventExit)          // no-op
*/
package lifecycle
