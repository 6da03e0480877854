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
Package cli provides the root command for the mkdsc CLI.

This package creates the main Cobra command tree and handles global concerns like
version information, persistent flags, and error handling. Individual commands
are implemented in the internal/commands subpackages.

# Command Tree

	mkdsc
	├── run           Launch the backend and supervise it
	├── resolve       Show resolved directories and launch order
	├── config        Show effective configuration
	├── completion    Generate shell completions
	├── version       Show version
	└── help          Show help

# Global Flags

	--verbose, -v   Enable debug logging
	--quiet, -q     Only log warnings and errors
	--json          Output in JSON format
	--config        Path to config file

# Exit Codes

	0  Success
	1  Failure
	2  Invalid configuration
	3  No backend could be started
*/
package cli
