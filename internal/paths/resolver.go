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

// Package paths locates the backend's base directory and the per-user data directory.
//
// Resolution never fails. When nothing better is found it degrades to the
// current working directory. The filesystem is only inspected, never modified.
package paths

import (
	"os"
	"path/filepath"

	"github.com/tombee/mkdsc/internal/config"
)

// MarkerFile must exist at the root of a valid base directory.
const MarkerFile = "tauri_backend.py"

// Locator is the part of the host shell the resolver needs.
// Either method may fail when the shell cannot provide the location.
type Locator interface {
	ResourceDir() (string, error)
	AppDataDir() (string, error)
}

// Resolver computes base and data directories.
type Resolver struct {
	// Locator supplies shell-provided directories. May be nil.
	Locator Locator

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Getwd returns the current working directory. Defaults to os.Getwd.
	Getwd func() (string, error)

	// ManifestDir is the build manifest directory. Its parent is a candidate.
	ManifestDir string

	// Marker is the file that identifies a base directory.
	Marker string
}

// NewResolver creates a resolver backed by the process environment.
func NewResolver(loc Locator) *Resolver {
	return &Resolver{
		Locator:     loc,
		LookupEnv:   os.LookupEnv,
		Getwd:       os.Getwd,
		ManifestDir: manifestDir(),
		Marker:      MarkerFile,
	}
}

// manifestDir returns the build-time manifest directory, or the directory
// of the running executable when none was injected.
func manifestDir() string {
	if config.ManifestDir != "" {
		return config.ManifestDir
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// Override returns the explicit base directory override, if set.
// An empty MKDSC_BASE_DIR counts as unset, so resolution falls through
// to the candidate search.
func (r *Resolver) Override() (string, bool) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	dir, ok := lookup(config.EnvBaseDir)
	if !ok || dir == "" {
		return "", false
	}
	return dir, true
}

// Candidates returns the ordered base directory candidates:
// resource dir, working dir, parent of working dir, parent of manifest dir.
// Candidates that cannot be determined are skipped.
func (r *Resolver) Candidates() []string {
	var candidates []string

	if r.Locator != nil {
		if dir, err := r.Locator.ResourceDir(); err == nil && dir != "" {
			candidates = append(candidates, dir)
		}
	}

	if wd, err := r.getwd(); err == nil {
		candidates = append(candidates, wd)
		if parent, ok := parentOf(wd); ok {
			candidates = append(candidates, parent)
		}
	}

	if r.ManifestDir != "" {
		if parent, ok := parentOf(r.ManifestDir); ok {
			candidates = append(candidates, parent)
		}
	}

	return candidates
}

// BaseDir resolves the backend's base directory.
//
// The override is returned verbatim, without any existence check.
// Otherwise the first candidate containing the marker file wins, falling
// back to the working directory (or ".") when none does.
func (r *Resolver) BaseDir() string {
	if dir, ok := r.Override(); ok {
		return dir
	}

	marker := r.Marker
	if marker == "" {
		marker = MarkerFile
	}

	for _, dir := range r.Candidates() {
		if exists(filepath.Join(dir, marker)) {
			return dir
		}
	}

	if wd, err := r.getwd(); err == nil {
		return wd
	}
	return "."
}

// DataDir resolves the per-user data directory for the given base directory.
func (r *Resolver) DataDir(base string) string {
	var appData string
	if r.Locator != nil {
		if dir, err := r.Locator.AppDataDir(); err == nil {
			appData = dir
		}
	}
	return DataDirFrom(appData, base)
}

// DataDirFrom is the pure data directory rule: the shell's per-user data
// directory when available (non-empty), otherwise the base directory.
func DataDirFrom(appDataDir, base string) string {
	if appDataDir != "" {
		return appDataDir
	}
	return base
}

func (r *Resolver) getwd() (string, error) {
	if r.Getwd != nil {
		return r.Getwd()
	}
	return os.Getwd()
}

// parentOf returns the parent directory, or false at a filesystem root.
func parentOf(dir string) (string, bool) {
	clean := filepath.Clean(dir)
	parent := filepath.Dir(clean)
	if parent == clean {
		return "", false
	}
	return parent, true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
