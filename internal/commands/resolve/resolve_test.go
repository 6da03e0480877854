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

package resolve

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/mkdsc/internal/commands/shared"
	"github.com/tombee/mkdsc/internal/config"
	"github.com/tombee/mkdsc/internal/lifecycle"
)

func setupEnv(t *testing.T) (base, dataHome string) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("Skipping: data directory layout asserted for linux")
	}

	base = t.TempDir()
	dataHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv(config.EnvBaseDir, base)
	t.Setenv(config.EnvAppID, "com.test.resolve")
	t.Setenv(config.EnvShutdownGrace, "")
	t.Setenv(config.EnvInterpreter, "")
	return base, dataHome
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	rootCmd := &cobra.Command{Use: "test", SilenceUsage: true}
	_, _, jsonPtr, _ := shared.RegisterFlagPointers()
	rootCmd.PersistentFlags().BoolVar(jsonPtr, "json", false, "JSON output")
	t.Cleanup(func() { *jsonPtr = false })
	rootCmd.AddCommand(NewCommand())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"resolve"}, args...))

	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestResolve_JSON(t *testing.T) {
	base, dataHome := setupEnv(t)

	var res lifecycle.Resolution
	out := execute(t, "--json")
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)

	assert.Equal(t, base, res.BaseDir)
	assert.True(t, res.Override)
	assert.Equal(t, filepath.Join(dataHome, "com.test.resolve"), res.DataDir)
	assert.Len(t, res.Strategies, 2)
	assert.Empty(t, res.Binary)
	assert.NoDirExists(t, res.DataDir, "resolve must not create the data directory")
}

func TestResolve_Text(t *testing.T) {
	base, _ := setupEnv(t)

	out := execute(t)
	assert.True(t, strings.HasPrefix(out, "base dir:    "+base+" (override)\n"), out)
	assert.Contains(t, out, "binary:      (not found)")
	assert.Contains(t, out, "mode:        "+config.ModeName())
	assert.NotContains(t, out, "candidates:")
}
