// Package config provides configuration management for the Atlas engine.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort      = 8788
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".atlas"
	DefaultFrameRate = 60.0

	// Environment variable names
	EnvPort      = "ATLAS_PORT"
	EnvLogLevel  = "ATLAS_LOG_LEVEL"
	EnvDataDir   = "ATLAS_DATA_DIR"
	EnvFrameRate = "ATLAS_FRAME_RATE"
	EnvSeedDemo  = "ATLAS_SEED_DEMO"

	// Database filename
	DBFilename = "atlas.db"

	maxFrameRate = 1000
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ExportDir() string
	FrameRate() float64
	SeedDemo() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port      int
	logLevel  string
	dataDir   string
	frameRate float64
	seedDemo  bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		dataDir:   defaultDataDir(),
		frameRate: DefaultFrameRate,
		seedDemo:  true,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if fr := os.Getenv(EnvFrameRate); fr != "" {
		rate, err := strconv.ParseFloat(fr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFrameRate, err)
		}
		if rate <= 0 || rate > maxFrameRate {
			return nil, fmt.Errorf("invalid %s: frame rate must be in (0, %d]", EnvFrameRate, maxFrameRate)
		}
		cfg.frameRate = rate
	}

	if sd := os.Getenv(EnvSeedDemo); sd != "" {
		seed, err := strconv.ParseBool(sd)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvSeedDemo, err)
		}
		cfg.seedDemo = seed
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables already set. A missing file is
// not an error; the returned bool reports whether one was loaded.
func LoadEnvFile(path string) (bool, error) {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ExportDir returns the directory EDL exports are written to
func (c *EnvConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "exports")
}

// FrameRate is used for new projects that do not set their own.
func (c *EnvConfig) FrameRate() float64 {
	return c.frameRate
}

// SeedDemo reports whether the demo project is created on an empty database.
func (c *EnvConfig) SeedDemo() bool {
	return c.seedDemo
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
