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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment(t *testing.T) {
	base := t.TempDir()
	data := filepath.Join(base, "data")

	assert.Equal(t, []string{
		"MKDSC_BASE_DIR=" + base,
		"MKDSC_DATA_DIR=" + data,
		"MKDSC_HOST=127.0.0.1",
		"MKDSC_PORT=6969",
		"MKDSC_AUTO_OPEN=0",
	}, Environment(base, data))
}

func TestEnvironment_RelativeDirsMadeAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	env := Environment("rel", ".")
	assert.Equal(t, "MKDSC_BASE_DIR="+filepath.Join(wd, "rel"), env[0])
	assert.Equal(t, "MKDSC_DATA_DIR="+wd, env[1])
}

func TestChildEnv_ContractLast(t *testing.T) {
	t.Setenv("MKDSC_TEST_INHERITED", "yes")

	env := childEnv("/base", "/data")
	tail := env[len(env)-5:]
	assert.Equal(t, Environment("/base", "/data"), tail)

	var inherited bool
	for _, kv := range env {
		if strings.HasPrefix(kv, "MKDSC_TEST_INHERITED=") {
			inherited = true
		}
	}
	assert.True(t, inherited)
}
