package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/index"
	"github.com/specialistvlad/burstbuild/internal/registry"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Root is the source tree that is scanned for declaration files.
	Root string
	// OutDir receives artifacts and the module index. Relative paths are
	// resolved against Root.
	OutDir string
	// DeclFileName is the name of declaration files.
	DeclFileName string
	// IndexPath overrides the module index location.
	IndexPath string

	// Jobs bounds the number of modules built at once, 0 means one per CPU.
	Jobs int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// ProgressURL, when set, is a socket.io server that receives progress events.
	ProgressURL       string
	ProgressNamespace string

	// MinLatency and MaxLatency bound the simulated duration of each phase.
	MinLatency time.Duration
	MaxLatency time.Duration
}

// NewConfig validates cfg and fills in derived defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", cfg.Root, err)
	}
	cfg.Root = root

	if cfg.OutDir == "" {
		cfg.OutDir = artifact.DefaultOutDir
	}
	if !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(cfg.Root, cfg.OutDir)
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = index.DefaultPath(cfg.OutDir)
	}
	if cfg.DeclFileName == "" {
		cfg.DeclFileName = registry.DefaultFileName
	}

	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("invalid jobs %d: must not be negative", cfg.Jobs)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if cfg.MinLatency < 0 || cfg.MaxLatency < 0 {
		return nil, errors.New("invalid latency: must not be negative")
	}
	if cfg.MaxLatency != 0 && cfg.MaxLatency < cfg.MinLatency {
		return nil, fmt.Errorf("invalid latency: max %s is below min %s", cfg.MaxLatency, cfg.MinLatency)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
