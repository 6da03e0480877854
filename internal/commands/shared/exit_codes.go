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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/lifecycle"
	mkdscerrors "github.com/tombee/mkdsc/pkg/errors"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailed  = 1
	ExitConfig  = 2
	ExitBackend = 3 // no backend could be started
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for invalid or unreadable configuration
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfig,
		Message: msg,
		Cause:   cause,
	}
}

// NewBackendError creates an error for a backend that could not be started
func NewBackendError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitBackend,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailed
}

// HandleExitError prints err and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	writeError(os.Stderr, err)
	os.Exit(ExitCode(err))
}

func writeError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err.Error())

	if suggestion := suggestionFor(err); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
}

func suggestionFor(err error) string {
	var cfgErr *mkdscerrors.ConfigError
	switch {
	case errors.Is(err, lifecycle.ErrNoBackend):
		return fmt.Sprintf("Set %s to the directory containing %s, or run 'mkdsc resolve' to see where the backend is searched for",
			config.EnvBaseDir, lifecycle.DefaultScript)
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("Check the %q setting in your config file or environment", cfgErr.Key)
	default:
		return ""
	}
}
