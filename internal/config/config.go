// Package config loads the YAML configuration file of the doc2reader CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-doc2reader/internal/fileutil"
	"github.com/alnah/go-doc2reader/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxBinaryLength      = 4096 // Path to the converter executable
	MaxTimeoutLength     = 20   // "2m", "90s", "1h30m"
	MaxPaletteNameLength = 50   // "dark", "solarized-light"
	MaxCSSValueLength    = 64   // "#1e1e1e", "rgb(30, 30, 30)", "20px"
	MaxPathLength        = 4096 // Asset base path
	MaxPalettes          = 32   // Custom palettes per file
)

// Config holds all configuration for reader generation.
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	Reader    ReaderConfig    `yaml:"reader"`
	Assets    AssetsConfig    `yaml:"assets"`
	Palettes  []PaletteConfig `yaml:"palettes"`
}

// ConverterConfig defines the external document converter.
type ConverterConfig struct {
	Binary  string `yaml:"binary"`  // Executable name or path (empty = soffice)
	Timeout string `yaml:"timeout"` // Go duration (empty = 2m)
}

// ReaderConfig defines the behavior of the generated reader.
type ReaderConfig struct {
	Palette            string `yaml:"palette"`            // Active palette name (empty = dark)
	DisableClickPaging bool   `yaml:"disableClickPaging"` // Clicks on the document do not turn pages
	StrictResources    bool   `yaml:"strictResources"`    // Missing images fail the conversion
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PaletteConfig defines a named color palette in addition to the presets.
type PaletteConfig struct {
	Name       string `yaml:"name"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	FontSize   string `yaml:"fontSize"`
	LineHeight string `yaml:"lineHeight"`
}

// Validate checks field lengths and formats.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("converter.binary", c.Converter.Binary, MaxBinaryLength); err != nil {
		return err
	}
	if err := validateFieldLength("converter.timeout", c.Converter.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if c.Converter.Timeout != "" {
		d, err := time.ParseDuration(c.Converter.Timeout)
		if err != nil {
			return fmt.Errorf("%w: converter.timeout: %v", ErrInvalidField, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: converter.timeout: must be positive, got %s", ErrInvalidField, d)
		}
	}

	if err := validateFieldLength("reader.palette", c.Reader.Palette, MaxPaletteNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if len(c.Palettes) > MaxPalettes {
		return fmt.Errorf("%w: palettes: %d entries, max %d", ErrInvalidField, len(c.Palettes), MaxPalettes)
	}
	seen := make(map[string]bool, len(c.Palettes))
	for i, p := range c.Palettes {
		prefix := fmt.Sprintf("palettes[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidField, prefix)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s.name: duplicate palette %q", ErrInvalidField, prefix, p.Name)
		}
		seen[key] = true

		fields := []struct {
			name  string
			value string
			max   int
		}{
			{"name", p.Name, MaxPaletteNameLength},
			{"background", p.Background, MaxCSSValueLength},
			{"foreground", p.Foreground, MaxCSSValueLength},
			{"fontSize", p.FontSize, MaxCSSValueLength},
			{"lineHeight", p.LineHeight, MaxCSSValueLength},
		}
		for _, f := range fields {
			if err := validateFieldLength(prefix+"."+f.name, f.value, f.max); err != nil {
				return err
			}
		}
	}

	return nil
}

// ConverterTimeout returns the configured conversion timeout, or zero when unset.
// Validate must have succeeded before calling.
func (c *Config) ConverterTimeout() time.Duration {
	if c.Converter.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Converter.Timeout)
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: built-in palette, embedded
// assets, default converter binary and timeout.
func DefaultConfig() *Config {
	return &Config{
		Converter: ConverterConfig{Binary: "", Timeout: ""},
		Reader:    ReaderConfig{Palette: ""},
		Assets:    AssetsConfig{BasePath: ""},
	}
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
	if err := yamlutil.DecodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the files tried for a config name, in order:
// name.yaml and name.yml in the current directory, then in the user config
// directory under go-doc2reader/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-doc2reader", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
