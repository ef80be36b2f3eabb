// Package config loads testscope settings by layering, in increasing
// precedence: built-in defaults, an optional user file at
// $XDG_CONFIG_HOME/testscope/config.toml, and TESTSCOPE_* environment
// variables (TESTSCOPE_RETRY_TIMEOUT=5s becomes retry.timeout).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the settings consumed by the testscope CLI. The library
// itself takes explicit options; these are the defaults the CLI feeds it.
type Config struct {
	// RetryTimeout bounds how long `testscope retry` keeps re-running a
	// command.
	RetryTimeout time.Duration

	// TempDirParent is where scoped temporary directories are created.
	// Empty means the operating system default.
	TempDirParent string

	// TempDirPattern names scoped temporary directories (os.MkdirTemp
	// pattern semantics).
	TempDirPattern string

	// MockReturnCode is the exit status mocked programs emit unless
	// overridden on the command line.
	MockReturnCode int
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"retry.timeout":   "60s",
		"tempdir.parent":  "",
		"tempdir.pattern": "testscope-",
		"mock.returncode": 0,
	}
}

// configFilePath returns the user configuration file location.
func configFilePath() string {
	return filepath.Join(xdg.ConfigHome, "testscope", "config.toml")
}

// Load assembles the configuration from defaults, the optional user file and
// the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	// 2. User config file, when present
	path := configFilePath()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Environment overrides
	err := k.Load(env.Provider("TESTSCOPE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TESTSCOPE_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, err
	}

	return &Config{
		RetryTimeout:   k.Duration("retry.timeout"),
		TempDirParent:  k.String("tempdir.parent"),
		TempDirPattern: k.String("tempdir.pattern"),
		MockReturnCode: k.Int("mock.returncode"),
	}, nil
}
