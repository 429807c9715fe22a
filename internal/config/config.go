// Package config resolves engine settings from a layered precedence:
// command-line flags override environment variables, which override the
// optional proofloop.yaml file, which overrides the built-in defaults.
// Flags are applied by the CLI after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked for in the working directory.
const DefaultFileName = "proofloop.yaml"

// Environment overrides.
const (
	EnvRunRoot            = "PROOFLOOP_RUN_ROOT"
	EnvMaxConcurrentCalls = "PROOFLOOP_MAX_CONCURRENT_CALLS"
	EnvRequestsPerMinute  = "PROOFLOOP_REQUESTS_PER_MINUTE"
)

// Config holds the invocation-independent settings.
type Config struct {
	// RunRoot is the project-scoped directory run artifacts live under.
	RunRoot string `yaml:"run_root"`

	// IndexPath is the sqlite run index. Relative paths are resolved
	// under RunRoot.
	IndexPath string `yaml:"index_path"`

	// MaxConcurrentCalls caps in-flight generation calls.
	MaxConcurrentCalls int `yaml:"max_concurrent_calls"`

	// RequestsPerMinute throttles generation call starts. Zero disables.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		RunRoot:            "runs",
		IndexPath:          "index.db",
		MaxConcurrentCalls: 3,
		RequestsPerMinute:  0,
	}
}

// Load reads path (DefaultFileName when empty) if it exists, then applies
// environment overrides. A missing file is not an error; a malformed one
// is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if root := os.Getenv(EnvRunRoot); root != "" {
		cfg.RunRoot = root
	}
	if err := intFromEnv(EnvMaxConcurrentCalls, &cfg.MaxConcurrentCalls); err != nil {
		return Config{}, err
	}
	if err := intFromEnv(EnvRequestsPerMinute, &cfg.RequestsPerMinute); err != nil {
		return Config{}, err
	}

	if cfg.MaxConcurrentCalls < 0 {
		return Config{}, fmt.Errorf("max_concurrent_calls cannot be negative: %d", cfg.MaxConcurrentCalls)
	}
	if cfg.RequestsPerMinute < 0 {
		return Config{}, fmt.Errorf("requests_per_minute cannot be negative: %d", cfg.RequestsPerMinute)
	}
	return cfg, nil
}

func intFromEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

// ResolvedIndexPath returns the run-index location, anchoring relative
// paths under the run root.
func (c Config) ResolvedIndexPath() string {
	if filepath.IsAbs(c.IndexPath) {
		return c.IndexPath
	}
	return filepath.Join(c.RunRoot, c.IndexPath)
}
