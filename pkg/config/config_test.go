// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
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

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
deployment: hpcmp
data_dir: /var/lib/fleetscope
log_level: DEBUG
rate_limiting:
  max_concurrent: 5
  min_interval_seconds: 120
  command_timeout_seconds: 45
  circuit_breaker:
    failure_threshold: 4
    pause_duration_seconds: 600
refresh:
  interval_seconds: 180
  timeout_seconds: 90
server:
  address: ":9090"
collectors:
  fleet:
    enabled: true
    url: https://centers.example.mil/status.html
    insecure: true
  session:
    enabled: true
    discover: true
  storage:
    enabled: true
    mounts: ["$HOME", "/scratch"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "fleetscope", cfg.Deployment)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 3, cfg.RateLimiting.MaxConcurrent)
	assert.Equal(t, 60, cfg.RateLimiting.MinIntervalSeconds)
	assert.Equal(t, 3, cfg.RateLimiting.CircuitBreaker.FailureThreshold)
	assert.True(t, cfg.Collectors.Probe.Enabled)
	assert.False(t, cfg.Collectors.Fleet.Enabled)
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hpcmp", cfg.Deployment)
	assert.Equal(t, "/var/lib/fleetscope", cfg.DataDir)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 5, cfg.RateLimiting.MaxConcurrent)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.Collectors.Fleet.Enabled)
	assert.True(t, cfg.Collectors.Fleet.Insecure)
	assert.Equal(t, "https://centers.example.mil/status.html", cfg.Collectors.Fleet.URL)
	assert.Equal(t, []string{"$HOME", "/scratch"}, cfg.Collectors.Storage.Mounts)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadNoFileUsesDefaults(t *testing.T) {
	// Run from a directory without a config.yaml.
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fleetscope", cfg.Deployment)
}

func TestLoadEnvConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, sampleConfig)
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hpcmp", cfg.Deployment)
}

func TestLoadEnvDataDirOverride(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	t.Setenv(EnvDataDir, "/override/data")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/override/data", cfg.DataDir)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "deployment: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestAdmissionConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	ac := cfg.AdmissionConfig()
	assert.Equal(t, int64(5), ac.MaxConcurrent)
	assert.Equal(t, 2*time.Minute, ac.MinInterval)
	assert.Equal(t, 4, ac.FailureThreshold)
	assert.Equal(t, 10*time.Minute, ac.PauseDuration)
}

func TestDurationAccessors(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, 90*time.Second, cfg.RefreshTimeout())
	assert.Equal(t, 45*time.Second, cfg.CommandTimeout())

	// Zero values fall back to defaults.
	zero := &Config{}
	assert.Equal(t, 5*time.Minute, zero.RefreshInterval())
	assert.Equal(t, 60*time.Second, zero.RefreshTimeout())
	assert.Equal(t, 30*time.Second, zero.CommandTimeout())
}
