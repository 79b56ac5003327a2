package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-doc2reader"
	"github.com/alnah/go-doc2reader/internal/config"
	"github.com/alnah/go-doc2reader/internal/fileutil"
	"github.com/alnah/go-doc2reader/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no source document specified")
	ErrWriteOutput = errors.New("failed to write output file")
)

// File permission constants.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// sofficeEnvVar overrides the LibreOffice executable when --soffice is not set.
const sofficeEnvVar = "DOC2READER_SOFFICE"

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input doc2reader.Input) (*doc2reader.Result, error)
	Snapshot(ctx context.Context, htmlPath string) ([]byte, error)
	Palettes() []doc2reader.Palette
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*doc2reader.Converter)(nil)

// settings is the merged configuration of one convert run: defaults < config
// file < environment < flags.
type settings struct {
	binary             string
	timeout            time.Duration
	palette            string
	strictResources    bool
	disableClickPaging bool
	assetPath          string
	isolateProfile     bool
	palettes           []doc2reader.Palette
}

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert converts one document and writes the reader.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 2 {
		return fmt.Errorf("%w: expected <source> [output], got %d arguments", ErrUsage, len(positional))
	}
	source := positional[0]

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}

	s, err := mergeSettings(cfg, flags, env)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	opts := buildOptions(s, env)
	opts = append(opts, doc2reader.WithLogger(logger))

	conv, err := env.NewConverter(opts...)
	if err != nil {
		return withPaletteHint(err, append(doc2reader.Presets(), s.palettes...))
	}
	defer conv.Close()

	start := env.Now()
	result, err := conv.Convert(ctx, doc2reader.Input{
		SourcePath: source,
		Palette:    s.palette,
		Overrides:  flags.overrides,
	})
	if err != nil {
		return withConvertHint(err, s.binary, conv.Palettes())
	}

	outPath, err := resolveOutputPath(positional, result.Name)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(outPath, result.HTML, filePermissions); err != nil {
		return withHint(fmt.Errorf("%w: %v", ErrWriteOutput, err), hints.ForOutputDirectory())
	}
	logger.Debug("reader written",
		"path", outPath,
		"bytes", len(result.HTML),
		"inlined", result.Inlined,
		"elapsed", env.Now().Sub(start))

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Your reader was saved as %s\n", outPath)
	}

	if flags.snapshot != "" {
		if err := writeSnapshot(ctx, conv, outPath, flags.snapshot); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Preview saved as %s\n", absOrSelf(flags.snapshot))
		}
	}

	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, withHint(fmt.Errorf("loading config: %w", err), hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeSettings layers the config file, environment and flags. CLI wins.
func mergeSettings(cfg *config.Config, flags *convertFlags, env *Environment) (*settings, error) {
	s := &settings{
		binary:             cfg.Converter.Binary,
		timeout:            cfg.ConverterTimeout(),
		palette:            cfg.Reader.Palette,
		strictResources:    cfg.Reader.StrictResources,
		disableClickPaging: cfg.Reader.DisableClickPaging,
		assetPath:          cfg.Assets.BasePath,
	}

	if v := env.getenv(sofficeEnvVar); v != "" {
		s.binary = v
	}
	if flags.converter.soffice != "" {
		s.binary = flags.converter.soffice
	}

	if flags.converter.timeout != "" {
		d, err := time.ParseDuration(flags.converter.timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: --timeout: %v", ErrUsage, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, d)
		}
		s.timeout = d
	}

	if flags.palette.name != "" {
		s.palette = flags.palette.name
	}
	if flags.reader.assetPath != "" {
		s.assetPath = flags.reader.assetPath
	}
	s.strictResources = s.strictResources || flags.reader.strict
	s.disableClickPaging = s.disableClickPaging || flags.reader.noClickPaging
	s.isolateProfile = flags.converter.isolate

	for _, p := range cfg.Palettes {
		s.palettes = append(s.palettes, doc2reader.Palette{
			Name:       p.Name,
			Background: p.Background,
			Foreground: p.Foreground,
			FontSize:   p.FontSize,
			LineHeight: p.LineHeight,
		})
	}

	return s, nil
}

// buildOptions turns settings into converter options.
func buildOptions(s *settings, env *Environment) []doc2reader.Option {
	opts := []doc2reader.Option{
		doc2reader.WithSofficeBinary(s.binary),
		doc2reader.WithStrictResources(s.strictResources),
		doc2reader.WithClickPaging(!s.disableClickPaging),
		doc2reader.WithIsolatedProfile(s.isolateProfile),
	}
	if s.timeout > 0 {
		opts = append(opts, doc2reader.WithTimeout(s.timeout))
	}
	if s.assetPath != "" {
		opts = append(opts, doc2reader.WithAssetPath(s.assetPath))
	}
	if len(s.palettes) > 0 {
		opts = append(opts, doc2reader.WithPalettes(s.palettes...))
	}
	if env.Runner != nil {
		opts = append(opts, doc2reader.WithCommandRunner(env.Runner))
	}
	return opts
}

// resolveOutputPath returns the absolute output path: the second positional
// argument, else the converter's file name in the current directory.
func resolveOutputPath(positional []string, name string) (string, error) {
	out := name
	if len(positional) > 1 && positional[1] != "" {
		out = positional[1]
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, name)
	}
	return abs, nil
}

// writeSnapshot renders the written reader and saves the PNG.
func writeSnapshot(ctx context.Context, conv Converter, readerPath, pngPath string) error {
	png, err := conv.Snapshot(ctx, readerPath)
	if err != nil {
		if errors.Is(err, doc2reader.ErrBrowserConnect) {
			return withHint(err, hints.ForBrowserConnect())
		}
		return err
	}
	if err := fileutil.WriteFileAtomic(pngPath, png, filePermissions); err != nil {
		return withHint(fmt.Errorf("%w: %v", ErrWriteOutput, err), hints.ForOutputDirectory())
	}
	return nil
}

// withConvertHint attaches the hint matching a conversion error.
func withConvertHint(err error, binary string, palettes []doc2reader.Palette) error {
	switch {
	case errors.Is(err, doc2reader.ErrConverterUnavailable):
		if binary == "" {
			binary = "soffice"
		}
		return withHint(err, hints.ForConverterMissing(binary))
	case errors.Is(err, doc2reader.ErrConversionTimeout):
		return withHint(err, hints.ForConversionTimeout())
	case errors.Is(err, doc2reader.ErrConversionFailed):
		return withHint(err, hints.ForConversionFailed())
	case errors.Is(err, doc2reader.ErrResourceMissing):
		return withHint(err, hints.ForResourceMissing())
	default:
		return withPaletteHint(err, palettes)
	}
}

// withPaletteHint lists the available palettes for ErrUnknownPalette.
func withPaletteHint(err error, palettes []doc2reader.Palette) error {
	if !errors.Is(err, doc2reader.ErrUnknownPalette) {
		return err
	}
	return withHint(err, hints.ForUnknownPalette(doc2reader.PaletteNames(palettes)))
}

// absOrSelf returns the absolute form of path, or path when that fails.
func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
