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

package config

// Environment variables read by the supervisor.
const (
	// EnvBaseDir overrides base directory resolution. Used verbatim.
	// It is also injected into the backend with the resolved value.
	EnvBaseDir = "MKDSC_BASE_DIR"

	// EnvForceInterpreter makes the interpreter the primary launch path
	// in packaged builds. Presence is enough; the value is ignored.
	EnvForceInterpreter = "MKDSC_FORCE_PYTHON"

	// EnvInterpreter names the interpreter executable explicitly.
	EnvInterpreter = "MKDSC_PYTHON"

	EnvAppID         = "MKDSC_APP_ID"
	EnvShutdownGrace = "MKDSC_SHUTDOWN_GRACE"
)

// Environment variables injected into the backend process.
const (
	EnvDataDir  = "MKDSC_DATA_DIR"
	EnvHost     = "MKDSC_HOST"
	EnvPort     = "MKDSC_PORT"
	EnvAutoOpen = "MKDSC_AUTO_OPEN"
)

// Fixed network defaults handed to the backend.
const (
	BackendHost     = "127.0.0.1"
	BackendPort     = "6969"
	BackendAutoOpen = "0"
)

// Build-time settings, injected via ldflags:
//
//	go build -ldflags "-X github.com/tombee/mkdsc/internal/config.BuildMode=release"
var (
	// BuildMode selects the execution mode. "release" is the packaged,
	// headless mode; anything else is interactive.
	BuildMode = "debug"

	// ManifestDir is the directory of the build manifest. Its parent is a
	// base directory candidate. When empty, the executable's directory is used.
	ManifestDir = ""
)

// Interactive reports whether this is an interactive (development) build.
func Interactive() bool {
	return BuildMode != "release"
}

// ModeName returns a human-readable name for the execution mode.
func ModeName() string {
	if Interactive() {
		return "interactive"
	}
	return "packaged"
}
