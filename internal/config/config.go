package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-deck2pptx/internal/fileutil"
	"github.com/alnah/go-deck2pptx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// Field length limits for multi-tenant safety.
const (
	MaxURLLength     = 2048 // Browser limit
	MaxPathLength    = 4096 // Typical filesystem limit
	MaxPatternLength = 200  // Output filename pattern
	MaxAddrLength    = 256  // host:port listen address
	MaxCSSLength     = 64 << 10
)

// Config holds all configuration for deck conversion.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Convert ConvertConfig `yaml:"convert"`
	Browser BrowserConfig `yaml:"browser"`
	Output  OutputConfig  `yaml:"output"`
	Assets  AssetsConfig  `yaml:"assets"`
	Inject  InjectConfig  `yaml:"inject"`
	Server  ServerConfig  `yaml:"server"`
}

// ServiceConfig locates the deck renderer service.
type ServiceConfig struct {
	BaseURL string `yaml:"baseUrl"` // e.g. "http://localhost:3000" (empty = must specify)
}

// ConvertConfig defines conversion behavior.
type ConvertConfig struct {
	Variant        string `yaml:"variant"`        // "native" or "screenshot" (empty = native)
	Quality        string `yaml:"quality"`        // "high", "medium", "low" (empty = high)
	AspectRatio    string `yaml:"aspectRatio"`    // "16:9" or "4:3" (empty = 16:9)
	LayoutPolicy   string `yaml:"layoutPolicy"`   // "warn" or "reject" (empty = warn)
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // per-conversion cap (0 = library default)
}

// BrowserConfig overrides capture browser settings.
type BrowserConfig struct {
	Bin            string  `yaml:"bin"`            // browser binary (empty = auto-detect)
	ViewportWidth  int     `yaml:"viewportWidth"`  // 0 = library default
	ViewportHeight int     `yaml:"viewportHeight"` // 0 = library default
	DeviceScale    float64 `yaml:"deviceScale"`    // 0 = library default
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir      string `yaml:"defaultDir"`      // Default output directory (empty = current)
	FilenamePattern string `yaml:"filenamePattern"` // Tokens: {id}, {name}, {date}, {ext}
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded stylesheets
}

// InjectConfig carries extra CSS injected into the viewer before capture.
type InjectConfig struct {
	CSS string `yaml:"css"`
}

// ServerConfig defines conversion server options.
type ServerConfig struct {
	Addr       string `yaml:"addr"`       // listen address (empty = ":8010")
	Workers    int    `yaml:"workers"`    // concurrent conversions (0 = auto)
	CORSOrigin string `yaml:"corsOrigin"` // Access-Control-Allow-Origin (empty = "*")
}

// Validate checks field lengths and enum values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	if err := validateFieldLength("service.baseUrl", c.Service.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Service.BaseURL != "" && !fileutil.IsURL(c.Service.BaseURL) {
		return fmt.Errorf("%w: service.baseUrl %q must start with http:// or https://", ErrInvalidField, c.Service.BaseURL)
	}

	if err := validateEnum("convert.variant", c.Convert.Variant, "native", "screenshot"); err != nil {
		return err
	}
	if err := validateEnum("convert.quality", c.Convert.Quality, "high", "medium", "low"); err != nil {
		return err
	}
	if c.Convert.AspectRatio != "" {
		switch c.Convert.AspectRatio {
		case "16:9", "4:3":
			// valid
		default:
			return fmt.Errorf("%w: convert.aspectRatio %q (must be 16:9 or 4:3)", ErrInvalidField, c.Convert.AspectRatio)
		}
	}
	if err := validateEnum("convert.layoutPolicy", c.Convert.LayoutPolicy, "warn", "reject"); err != nil {
		return err
	}
	if c.Convert.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: convert.timeoutSeconds must not be negative, got %d", ErrInvalidField, c.Convert.TimeoutSeconds)
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("%w: browser viewport must not be negative, got %dx%d", ErrInvalidField, c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}
	if (c.Browser.ViewportWidth == 0) != (c.Browser.ViewportHeight == 0) {
		return fmt.Errorf("%w: browser viewport needs both width and height", ErrInvalidField)
	}
	if c.Browser.DeviceScale < 0 || c.Browser.DeviceScale > 4 {
		return fmt.Errorf("%w: browser.deviceScale must be between 0 and 4, got %.2f", ErrInvalidField, c.Browser.DeviceScale)
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.filenamePattern", c.Output.FilenamePattern, MaxPatternLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("inject.css", c.Inject.CSS, MaxCSSLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("%w: server.workers must not be negative, got %d", ErrInvalidField, c.Server.Workers)
	}
	if err := validateFieldLength("server.corsOrigin", c.Server.CORSOrigin, MaxURLLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateEnum checks a lowercase string field against its allowed values.
// Empty means "use the default" and always passes.
func validateEnum(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	lower := strings.ToLower(value)
	for _, a := range allowed {
		if lower == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be %s)", ErrInvalidField, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a neutral configuration: every field empty or zero,
// deferring to library and CLI defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-deck2pptx/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-deck2pptx", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
