// Package config loads load manifests: the resources to inject plus the
// host page, browser and logging settings used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-fileloader/internal/fileutil"
	"github.com/alnah/go-fileloader/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength   = 2048 // Browser limit
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxTitleLength = 200
)

// Defaults applied by DefaultConfig and by accessors for empty fields.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// appDir is the directory under the user config dir searched for named configs.
const appDir = "go-fileloader"

// Config holds one load manifest.
type Config struct {
	Page    PageConfig    `yaml:"page"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`

	// Files is decoded as-is so that malformed entries reach the loader's
	// sanitizer, which drops and reports them.
	Files any `yaml:"files"`
}

// PageConfig selects the host document resources are injected into.
type PageConfig struct {
	URL    string `yaml:"url"`    // Open this URL (wins over Source)
	Source string `yaml:"source"` // Markdown or HTML file rendered as the host page
	Title  string `yaml:"title"`  // Title of a generated host page
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Chrome binary (empty = rod managed)
	NoSandbox bool   `yaml:"noSandbox"` // Needed in most containers
	Timeout   string `yaml:"timeout"`   // Per-batch deadline, e.g. "30s"
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns a configuration with no files and default settings.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{Timeout: DefaultTimeout.String()},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Validate checks lengths and enumerated values.
func (c *Config) Validate() error {
	if err := validateFieldLength("page.url", c.Page.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.source", c.Page.Source, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.title", c.Page.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}

	if c.Page.URL != "" && !fileutil.IsURL(c.Page.URL) {
		return fmt.Errorf("%w: page.url %q must start with http://, https:// or file://", ErrInvalidValue, c.Page.URL)
	}

	if c.Browser.Timeout != "" {
		d, err := time.ParseDuration(c.Browser.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: browser.timeout %q must be a positive duration", ErrInvalidValue, c.Browser.Timeout)
		}
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
			// valid
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "console", "json":
			// valid
		default:
			return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

// Timeout returns the per-batch deadline, or DefaultTimeout when unset.
// Call Validate first; an unparsable value also yields the default.
func (c *Config) Timeout() time.Duration {
	if d, err := time.ParseDuration(c.Browser.Timeout); err == nil && d > 0 {
		return d
	}
	return DefaultTimeout
}

// FileEntries returns Files with object entries of the form {file: "path"}
// unwrapped to their path. Every other entry is returned unchanged.
func (c *Config) FileEntries() any {
	list, ok := c.Files.([]any)
	if !ok {
		return c.Files
	}
	out := make([]any, len(list))
	for i, entry := range list {
		out[i] = entry
		if m, ok := entry.(map[string]any); ok {
			if path, ok := m["file"].(string); ok {
				out[i] = path
			}
		}
	}
	return out
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched as a name in the current directory and then in
// the user config directory. Returns error if the file is not found.
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

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative page sources are relative to the manifest, not the CWD.
	if cfg.Page.Source != "" && !filepath.IsAbs(cfg.Page.Source) {
		cfg.Page.Source = filepath.Join(filepath.Dir(configPath), cfg.Page.Source)
	}

	return cfg, nil
}

// SearchPaths returns the paths tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
