package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-deck2pptx/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // DECK2PPTX_CONFIG: config file path
	BaseURL    string        // DECK2PPTX_BASE_URL: deck service base URL
	Timeout    time.Duration // DECK2PPTX_TIMEOUT: per-conversion timeout

	// Tier 2 - Conversion
	Variant      string // DECK2PPTX_VARIANT: native, screenshot
	Quality      string // DECK2PPTX_QUALITY: high, medium, low
	AspectRatio  string // DECK2PPTX_ASPECT_RATIO: 16:9, 4:3
	LayoutPolicy string // DECK2PPTX_LAYOUT_POLICY: warn, reject
	Workers      int    // DECK2PPTX_WORKERS: parallel workers

	// Tier 3 - Extended
	OutputDir  string // DECK2PPTX_OUTPUT_DIR: default output directory
	BrowserBin string // DECK2PPTX_BROWSER_BIN: browser binary path
	AssetPath  string // DECK2PPTX_ASSET_PATH: stylesheet directory
	Addr       string // DECK2PPTX_ADDR: serve listen address
	CORSOrigin string // DECK2PPTX_CORS_ORIGIN: serve allowed origins
}

// knownEnvVars lists valid DECK2PPTX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"DECK2PPTX_CONFIG":   true,
	"DECK2PPTX_BASE_URL": true,
	"DECK2PPTX_TIMEOUT":  true,
	// Tier 2 - Conversion
	"DECK2PPTX_VARIANT":       true,
	"DECK2PPTX_QUALITY":       true,
	"DECK2PPTX_ASPECT_RATIO":  true,
	"DECK2PPTX_LAYOUT_POLICY": true,
	"DECK2PPTX_WORKERS":       true,
	// Tier 3 - Extended
	"DECK2PPTX_OUTPUT_DIR":  true,
	"DECK2PPTX_BROWSER_BIN": true,
	"DECK2PPTX_ASSET_PATH":  true,
	"DECK2PPTX_ADDR":        true,
	"DECK2PPTX_CORS_ORIGIN": true,
	// Recognized by doctor, not a config override
	"DECK2PPTX_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized DECK2PPTX_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("DECK2PPTX_CONFIG"),
		BaseURL:    os.Getenv("DECK2PPTX_BASE_URL"),
		// Tier 2
		Variant:      os.Getenv("DECK2PPTX_VARIANT"),
		Quality:      os.Getenv("DECK2PPTX_QUALITY"),
		AspectRatio:  os.Getenv("DECK2PPTX_ASPECT_RATIO"),
		LayoutPolicy: os.Getenv("DECK2PPTX_LAYOUT_POLICY"),
		// Tier 3
		OutputDir:  os.Getenv("DECK2PPTX_OUTPUT_DIR"),
		BrowserBin: os.Getenv("DECK2PPTX_BROWSER_BIN"),
		AssetPath:  os.Getenv("DECK2PPTX_ASSET_PATH"),
		Addr:       os.Getenv("DECK2PPTX_ADDR"),
		CORSOrigin: os.Getenv("DECK2PPTX_CORS_ORIGIN"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("DECK2PPTX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("DECK2PPTX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DECK2PPTX_* variables.
// Helps catch typos like DECK2PPTX_QUALTY instead of DECK2PPTX_QUALITY.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DECK2PPTX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Service (timeout handled separately in resolveTimeoutWithEnv)
	if env.BaseURL != "" && cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = env.BaseURL
	}

	// Tier 2 - Conversion (workers handled separately in runConvert/runServe)
	if env.Variant != "" && cfg.Convert.Variant == "" {
		cfg.Convert.Variant = env.Variant
	}
	if env.Quality != "" && cfg.Convert.Quality == "" {
		cfg.Convert.Quality = env.Quality
	}
	if env.AspectRatio != "" && cfg.Convert.AspectRatio == "" {
		cfg.Convert.AspectRatio = env.AspectRatio
	}
	if env.LayoutPolicy != "" && cfg.Convert.LayoutPolicy == "" {
		cfg.Convert.LayoutPolicy = env.LayoutPolicy
	}

	// Tier 3 - Extended
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.BrowserBin != "" && cfg.Browser.Bin == "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Addr != "" && cfg.Server.Addr == "" {
		cfg.Server.Addr = env.Addr
	}
	if env.CORSOrigin != "" && cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = env.CORSOrigin
	}
}
