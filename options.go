package doc2reader

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	binary             string
	timeout            time.Duration
	assetPath          string
	strictResources    bool
	disableClickPaging bool
	defaultPalette     string
	palettes           []Palette
	isolateProfile     bool
}

// Defaults used when no option overrides them.
const (
	// defaultTimeout bounds one external conversion, polling included.
	defaultTimeout = 2 * time.Minute

	// defaultBinary is the LibreOffice executable looked up in PATH.
	defaultBinary = "soffice"

	// snapshotTimeout bounds loading the reader for a preview.
	snapshotTimeout = 30 * time.Second
)

// WithTimeout sets the conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("doc2reader: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithSofficeBinary sets the LibreOffice executable (name or path).
// An empty value keeps the default.
func WithSofficeBinary(binary string) Option {
	return func(c *Converter) {
		if binary != "" {
			c.cfg.binary = binary
		}
	}
}

// WithAssetPath loads the reader chrome from a custom directory, falling back
// to the embedded templates for sets that are not found there.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStrictResources makes Convert fail with ErrResourceMissing when an
// image cannot be embedded. By default missing images are reported in
// Result.Missing and the reader is still produced.
func WithStrictResources(strict bool) Option {
	return func(c *Converter) {
		c.cfg.strictResources = strict
	}
}

// WithClickPaging enables or disables page turning by clicking the document.
// Keyboard paging is unaffected.
func WithClickPaging(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.disableClickPaging = !enabled
	}
}

// WithDefaultPalette sets the palette used when Input.Palette is empty.
func WithDefaultPalette(name string) Option {
	return func(c *Converter) {
		c.cfg.defaultPalette = name
	}
}

// WithPalettes adds palettes after the presets. A palette named like a
// preset replaces it.
func WithPalettes(palettes ...Palette) Option {
	return func(c *Converter) {
		c.cfg.palettes = append(c.cfg.palettes, palettes...)
	}
}

// WithIsolatedProfile runs LibreOffice with a throwaway user profile inside
// the working directory, so a running desktop instance cannot swallow the
// conversion.
func WithIsolatedProfile(isolate bool) Option {
	return func(c *Converter) {
		c.cfg.isolateProfile = isolate
	}
}

// WithLogger sets the logger for diagnostics. Nil keeps the default, which
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocumentConverter replaces the document converter for every source,
// whatever its extension.
func WithDocumentConverter(dc DocumentConverter) Option {
	return func(c *Converter) {
		c.documents = dc
	}
}

// WithCommandRunner sets how LibreOffice is executed.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}
