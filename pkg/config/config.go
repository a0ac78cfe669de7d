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

// Package config loads the fleetscope YAML configuration.
//
// The file is optional: every field has a default, and a missing file
// yields the default configuration. Search order for the file:
//
//  1. Explicit path (--config flag)
//  2. FLEETSCOPE_CONFIG environment variable
//  3. ./config.yaml
//  4. ~/.fleetscope/config.yaml
//
// FLEETSCOPE_DATA_DIR overrides data_dir regardless of where the rest
// of the configuration came from.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fleetscope/fleetscope/pkg/admission"
	"github.com/fleetscope/fleetscope/pkg/defaults"
)

const (
	// EnvConfig names the environment variable pointing at the config file.
	EnvConfig = "FLEETSCOPE_CONFIG"

	// EnvDataDir overrides the data_dir setting.
	EnvDataDir = "FLEETSCOPE_DATA_DIR"

	defaultFileName = "config.yaml"
	defaultHomeDir  = ".fleetscope"
)

// Config is the root fleetscope configuration.
type Config struct {
	// Deployment names this installation in logs and snapshots.
	Deployment string `yaml:"deployment"`

	// DataDir holds the snapshot cache and history files.
	DataDir string `yaml:"data_dir"`

	// LogLevel is DEBUG, INFO, WARN, or ERROR.
	LogLevel string `yaml:"log_level"`

	RateLimiting RateLimiting `yaml:"rate_limiting"`
	Refresh      Refresh      `yaml:"refresh"`
	Server       Server       `yaml:"server"`
	Collectors   Collectors   `yaml:"collectors"`
}

// RateLimiting holds the scheduler-facing admission settings.
// Intervals are expressed in seconds to keep the YAML plain.
type RateLimiting struct {
	MaxConcurrent      int            `yaml:"max_concurrent"`
	MinIntervalSeconds int            `yaml:"min_interval_seconds"`
	CommandTimeoutSecs int            `yaml:"command_timeout_seconds"`
	CircuitBreaker     CircuitBreaker `yaml:"circuit_breaker"`
}

// CircuitBreaker pauses collection against targets that keep failing.
type CircuitBreaker struct {
	FailureThreshold     int `yaml:"failure_threshold"`
	PauseDurationSeconds int `yaml:"pause_duration_seconds"`
}

// Refresh controls the periodic collection loop.
type Refresh struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
}

// Server configures the ops HTTP endpoint of the daemon.
type Server struct {
	Address string `yaml:"address"`
}

// Collectors holds per-collector settings.
type Collectors struct {
	Fleet   FleetCollector   `yaml:"fleet"`
	Session SessionCollector `yaml:"session"`
	Storage StorageCollector `yaml:"storage"`
	Probe   ProbeCollector   `yaml:"probe"`
}

// FleetCollector configures the status-page scraper.
type FleetCollector struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Insecure bool   `yaml:"insecure"`
}

// SessionCollector configures the gateway-session collector.
type SessionCollector struct {
	Enabled  bool     `yaml:"enabled"`
	Targets  []string `yaml:"targets"`
	Discover bool     `yaml:"discover"`
	Binary   string   `yaml:"binary"`
}

// StorageCollector configures per-target filesystem collection.
type StorageCollector struct {
	Enabled bool     `yaml:"enabled"`
	Targets []string `yaml:"targets"`
	Mounts  []string `yaml:"mounts"`
}

// ProbeCollector configures the local host probe.
type ProbeCollector struct {
	Enabled bool     `yaml:"enabled"`
	System  string   `yaml:"system"`
	Mounts  []string `yaml:"mounts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Deployment: "fleetscope",
		DataDir:    defaultDataDir(),
		LogLevel:   "INFO",
		RateLimiting: RateLimiting{
			MaxConcurrent:      defaults.AdmissionMaxConcurrent,
			MinIntervalSeconds: int(defaults.AdmissionMinInterval.Seconds()),
			CommandTimeoutSecs: int(defaults.GatewayCommandTimeout.Seconds()),
			CircuitBreaker: CircuitBreaker{
				FailureThreshold:     defaults.AdmissionFailureThreshold,
				PauseDurationSeconds: int(defaults.AdmissionPauseDuration.Seconds()),
			},
		},
		Refresh: Refresh{
			IntervalSeconds: int(defaults.RefreshInterval.Seconds()),
			TimeoutSeconds:  int(defaults.CollectorTimeout.Seconds()),
		},
		Server: Server{
			Address: ":8080",
		},
		Collectors: Collectors{
			Probe: ProbeCollector{Enabled: true},
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultHomeDir)
	}
	return filepath.Join(home, defaultHomeDir)
}

// Resolve returns the config file path to use, or "" when no file
// exists and defaults apply. An explicit path wins but must exist.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %q: %w", explicit, err)
		}
		return explicit, nil
	}

	candidates := []string{}
	if env := os.Getenv(EnvConfig); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, defaultFileName)
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, defaultHomeDir, defaultFileName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load resolves and loads the configuration. Values present in the
// file override defaults field by field; environment overrides are
// applied last.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	path, err := Resolve(explicit)
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
		slog.Debug("loaded config file", "path", path)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}

	return cfg, nil
}

// AdmissionConfig converts the rate-limiting block into the
// admission controller's configuration.
func (c *Config) AdmissionConfig() admission.Config {
	return admission.Config{
		MaxConcurrent:    int64(c.RateLimiting.MaxConcurrent),
		MinInterval:      time.Duration(c.RateLimiting.MinIntervalSeconds) * time.Second,
		FailureThreshold: c.RateLimiting.CircuitBreaker.FailureThreshold,
		PauseDuration:    time.Duration(c.RateLimiting.CircuitBreaker.PauseDurationSeconds) * time.Second,
	}
}

// RefreshInterval returns the refresh loop period.
func (c *Config) RefreshInterval() time.Duration {
	if c.Refresh.IntervalSeconds <= 0 {
		return defaults.RefreshInterval
	}
	return time.Duration(c.Refresh.IntervalSeconds) * time.Second
}

// RefreshTimeout returns the per-collector pass timeout.
func (c *Config) RefreshTimeout() time.Duration {
	if c.Refresh.TimeoutSeconds <= 0 {
		return defaults.CollectorTimeout
	}
	return time.Duration(c.Refresh.TimeoutSeconds) * time.Second
}

// CommandTimeout returns the per-command timeout for gateway sessions.
func (c *Config) CommandTimeout() time.Duration {
	if c.RateLimiting.CommandTimeoutSecs <= 0 {
		return defaults.GatewayCommandTimeout
	}
	return time.Duration(c.RateLimiting.CommandTimeoutSecs) * time.Second
}
