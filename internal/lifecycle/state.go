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
	"sync"
)

// ErrAlreadyStarted is returned by Store when a handle is already held.
var ErrAlreadyStarted = errors.New("backend already started")

// BackendState holds at most one live backend handle.
type BackendState struct {
	mu     sync.Mutex
	handle Handle
}

// Store records h. It refuses to replace a held handle.
func (s *BackendState) Store(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return ErrAlreadyStarted
	}
	s.handle = h
	return nil
}

// Take removes and returns the held handle, or nil.
func (s *BackendState) Take() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.handle
	s.handle = nil
	return h
}

// Running reports whether a handle is held.
func (s *BackendState) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}
