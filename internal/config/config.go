// Package config supplies default values for the command-line flags
// cmd/shelfcontrol exposes, with environment variable overrides applied
// before cobra's own flag defaults are set. There is no configuration
// file; CLI flags are the interface (see the external interfaces table),
// so only the defaults-plus-env-override half of this layer applies.
package config

import (
	"os"
	"runtime"
	"strconv"
)

// Config holds the default values cmd/shelfcontrol seeds its flags with.
type Config struct {
	Host       string
	Port       int
	DBFile     string
	CoverDir   string
	LibraryDir string
	Workers    int
}

// Default returns built-in defaults overlaid with any SHELFCONTROL_*
// environment variables that are set, so a flag's zero-value default can
// still be customized per-deployment without a flag being passed.
func Default() Config {
	cfg := Config{
		Host:       "localhost",
		Port:       8080,
		DBFile:     ".shelfcontrol",
		CoverDir:   "",
		LibraryDir: "./books",
		Workers:    runtime.NumCPU(),
	}

	if v := os.Getenv("SHELFCONTROL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("SHELFCONTROL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("SHELFCONTROL_DBFILE"); v != "" {
		cfg.DBFile = v
	}
	if v := os.Getenv("SHELFCONTROL_COVERDIR"); v != "" {
		cfg.CoverDir = v
	}
	if v := os.Getenv("SHELFCONTROL_DIR"); v != "" {
		cfg.LibraryDir = v
	}
	if v := os.Getenv("SHELFCONTROL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}

	return cfg
}
