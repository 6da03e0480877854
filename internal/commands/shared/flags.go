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

// globals holds the persistent flags bound by the root command. Every
// subcommand reads them through the getters below.
var globals struct {
	verbose bool
	quiet   bool
	json    bool
	config  string
}

// build is stamped by main from ldflags.
var build = struct {
	version, commit, date string
}{"dev", "unknown", "unknown"}

// RegisterFlagPointers returns the verbose, quiet, json and config flag
// targets, in that order, for the root command to bind.
func RegisterFlagPointers() (*bool, *bool, *bool, *string) {
	return &globals.verbose, &globals.quiet, &globals.json, &globals.config
}

// SetVersion records the build's version, commit and date.
func SetVersion(v, c, b string) {
	build.version, build.commit, build.date = v, c, b
}

// GetVersion returns version, commit and build date.
func GetVersion() (string, string, string) {
	return build.version, build.commit, build.date
}

// GetVerbose reports --verbose.
func GetVerbose() bool { return globals.verbose }

// GetQuiet reports --quiet.
func GetQuiet() bool { return globals.quiet }

// GetJSON reports whether output should be machine-readable.
func GetJSON() bool { return globals.json }

// GetConfigPath returns --config; empty means the default location.
func GetConfigPath() string { return globals.config }
