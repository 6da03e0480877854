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

// Package shell provides a headless host for the backend supervisor.
//
// Headless stands in for a desktop window shell: it reports the resource
// and per-user data directories and turns process signals into the
// lifecycle events a window shell would deliver.
package shell

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/lifecycle"
)

// Headless is a shell without a window.
type Headless struct {
	// AppID names the per-user data directory.
	AppID string

	// Executable returns the running binary. Defaults to os.Executable.
	Executable func() (string, error)

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// GOOS defaults to runtime.GOOS.
	GOOS string
}

// NewHeadless creates a headless shell for appID.
func NewHeadless(appID string) *Headless {
	if appID == "" {
		appID = config.DefaultAppID
	}
	return &Headless{AppID: appID}
}

// ResourceDir returns the directory containing the running executable.
func (h *Headless) ResourceDir() (string, error) {
	executable := h.Executable
	if executable == nil {
		executable = os.Executable
	}

	exe, err := executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// AppDataDir returns the per-user data directory for the app identifier.
// It is not created.
func (h *Headless) AppDataDir() (string, error) {
	getenv := h.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	goos := h.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var base string
	switch goos {
	case "windows":
		base = getenv("APPDATA")
		if base == "" {
			return "", errors.New("%APPDATA% is not defined")
		}
	case "darwin", "ios":
		home := getenv("HOME")
		if home == "" {
			return "", errors.New("$HOME is not defined")
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = getenv("XDG_DATA_HOME")
		if base == "" || !filepath.IsAbs(base) {
			home := getenv("HOME")
			if home == "" {
				return "", errors.New("neither $XDG_DATA_HOME nor $HOME are defined")
			}
			base = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(base, h.AppID), nil
}

// Events delivers lifecycle events until ctx is done, then closes the
// channel.
func (h *Headless) Events(ctx context.Context) <-chan lifecycle.Event {
	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	events := make(chan lifecycle.Event, 8)
	go func() {
		defer close(events)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				for _, e := range translate(sig) {
					select {
					case events <- e:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return events
}

// translate maps a signal to the events a window shell would send.
func translate(sig os.Signal) []lifecycle.Event {
	switch sig {
	case syscall.SIGINT, syscall.SIGTERM:
		return []lifecycle.Event{lifecycle.EventExitRequested, lifecycle.EventExit}
	case syscall.SIGHUP:
		return []lifecycle.Event{lifecycle.EventWindowCloseRequested}
	default:
		return nil
	}
}
