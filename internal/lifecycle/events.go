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

// Event is a host shell lifecycle notification.
type Event int

const (
	EventUnknown Event = iota
	// EventWindowCloseRequested is sent when the window is asked to close.
	EventWindowCloseRequested
	// EventExitRequested is sent when the application is asked to exit.
	EventExitRequested
	// EventExit is the final notification before the host exits.
	EventExit
	// EventReady is sent once the host finished setup.
	EventReady
)

func (e Event) String() string {
	switch e {
	case EventWindowCloseRequested:
		return "window_close_requested"
	case EventExitRequested:
		return "exit_requested"
	case EventExit:
		return "exit"
	case EventReady:
		return "ready"
	default:
		return "unknown"
	}
}

// TriggersShutdown reports whether the event terminates the backend.
func (e Event) TriggersShutdown() bool {
	switch e {
	case EventWindowCloseRequested, EventExitRequested, EventExit:
		return true
	default:
		return false
	}
}
