package doc2reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-doc2reader/internal/assets"
	"github.com/alnah/go-doc2reader/internal/fileutil"
	"github.com/alnah/go-doc2reader/internal/pipeline"
)

// workDirPrefix names the scoped directory each conversion writes into.
const workDirPrefix = "doc2reader-"

// Input is one conversion request.
type Input struct {
	SourcePath string        // document to convert, required
	Palette    string        // palette applied on load, empty for the converter default
	Overrides  PaletteUpdate // partial update over the selected palette
}

// Result is a converted reader.
type Result struct {
	HTML           []byte
	Name           string   // file name produced by the document converter, e.g. "report.html"
	Palette        Palette  // palette applied on load, overrides included
	Inlined        int      // images embedded as data URIs
	Missing        []string // local references that could not be embedded
	Generic        []string // references embedded with a generic media type
	Remote         []string // network references left untouched
	SourceEncoding string   // charset the converter output was decoded from
}

// Converter turns documents into self-contained HTML readers.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter may be used by several goroutines; each Convert call owns its
// own working directory.
type Converter struct {
	cfg         converterConfig
	logger      *slog.Logger
	documents   DocumentConverter // overrides the per-extension choice when set
	office      DocumentConverter
	markdown    DocumentConverter
	runner      CommandRunner
	renderer    *pipeline.ChromeRenderer
	pipeline    *pipeline.Pipeline
	palettes    []Palette
	snapshotter snapshotter
}

// NewConverter creates a Converter with default configuration.
// Returns error if a palette is invalid or the reader chrome cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			binary:         defaultBinary,
			timeout:        defaultTimeout,
			defaultPalette: DefaultPaletteName,
		},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		markdown: newMarkdownConverter(),
		pipeline: pipeline.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	for _, p := range c.cfg.palettes {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	c.palettes = mergePalettes(presets, c.cfg.palettes)
	if _, err := LookupPalette(c.palettes, c.cfg.defaultPalette); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	ts, err := resolver.LoadTemplateSet(assets.DefaultTemplateSetName)
	if err != nil {
		return nil, fmt.Errorf("loading reader templates: %w", err)
	}
	c.logger.Debug("loaded reader templates", "set", ts.Name, "custom", resolver.HasCustomLoader())
	c.renderer, err = pipeline.NewChromeRenderer(ts)
	if err != nil {
		return nil, err
	}

	office := NewLibreOffice(c.cfg.binary, c.cfg.timeout, c.runner)
	office.isolateProfile = c.cfg.isolateProfile
	c.office = office

	if c.snapshotter == nil {
		c.snapshotter = newRodSnapshotter(snapshotTimeout)
	}

	return c, nil
}

// Convert runs the document converter on input.SourcePath, then sanitizes,
// injects the reader chrome and inlines images. The working directory is
// removed before Convert returns.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	source, err := validateSource(input.SourcePath)
	if err != nil {
		return nil, err
	}

	palette, err := c.selectPalette(input)
	if err != nil {
		return nil, err
	}

	documents := c.documentConverter(source)
	if err := documents.Check(ctx); err != nil {
		return nil, err
	}

	workDir, cleanup, err := fileutil.MakeWorkDir(workDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer cleanup()

	start := time.Now()
	conv, err := documents.Convert(ctx, source, workDir)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("converted document", "source", source, "html", conv.HTMLPath, "elapsed", time.Since(start))

	raw, err := os.ReadFile(conv.HTMLPath) // #nosec G304 -- produced inside the work directory
	if err != nil {
		return nil, fmt.Errorf("%w: reading output: %v", ErrConversionFailed, err)
	}
	text, encoding, err := pipeline.DecodeHTML(raw, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	if encoding != "utf-8" {
		c.logger.Debug("decoded converter output", "charset", encoding)
	}

	blocks, err := c.renderer.Render(c.chromeData(palette))
	if err != nil {
		return nil, err
	}

	out, err := c.pipeline.Run(ctx, &pipeline.Context{
		ResourceDir: conv.ResourceDir,
		Blocks:      blocks,
		Logger:      c.logger,
	}, text)
	if err != nil {
		return nil, err
	}

	res := &Result{
		HTML:           []byte(out.HTML),
		Name:           filepath.Base(conv.HTMLPath),
		Palette:        palette,
		Inlined:        out.Report.Inlined,
		Generic:        out.Report.Generic,
		Remote:         out.Report.Remote,
		SourceEncoding: encoding,
	}
	for _, m := range out.Report.Missing {
		res.Missing = append(res.Missing, m.Ref)
	}

	if c.cfg.strictResources && len(res.Missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, strings.Join(res.Missing, ", "))
	}
	return res, nil
}

// Check reports whether the LibreOffice converter can run.
func (c *Converter) Check(ctx context.Context) error {
	if c.documents != nil {
		return c.documents.Check(ctx)
	}
	return c.office.Check(ctx)
}

// ConverterVersion returns the version line printed by LibreOffice.
func (c *Converter) ConverterVersion(ctx context.Context) (string, error) {
	lo, ok := c.office.(*LibreOffice)
	if !ok {
		return "", fmt.Errorf("%w: no LibreOffice converter", ErrConverterUnavailable)
	}
	return lo.Version(ctx)
}

// Palettes returns the presets followed by the configured palettes.
func (c *Converter) Palettes() []Palette {
	return slices.Clone(c.palettes)
}

// Snapshot renders a written reader file in headless Chrome and returns a
// PNG of its first page.
func (c *Converter) Snapshot(ctx context.Context, htmlPath string) ([]byte, error) {
	if !fileutil.FileExists(htmlPath) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, htmlPath)
	}
	return c.snapshotter.Snapshot(ctx, htmlPath)
}

// Close releases browser resources started by Snapshot.
func (c *Converter) Close() error {
	if c.snapshotter != nil {
		return c.snapshotter.Close()
	}
	return nil
}

// validateSource returns the absolute path of an existing regular file.
func validateSource(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty path", ErrSourceNotFound)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceIsDirectory, path)
	}
	return abs, nil
}

// selectPalette resolves the requested palette and applies the overrides.
func (c *Converter) selectPalette(input Input) (Palette, error) {
	name := input.Palette
	if name == "" {
		name = c.cfg.defaultPalette
	}
	p, err := LookupPalette(c.palettes, name)
	if err != nil {
		return Palette{}, err
	}
	p = p.With(input.Overrides)
	if err := p.Validate(); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// documentConverter picks the collaborator for source.
func (c *Converter) documentConverter(source string) DocumentConverter {
	switch {
	case c.documents != nil:
		return c.documents
	case IsMarkdown(source):
		return c.markdown
	default:
		return c.office
	}
}

// chromeData builds the template values for the active palette.
func (c *Converter) chromeData(active Palette) pipeline.ChromeData {
	presetData := make([]pipeline.PaletteData, len(c.palettes))
	for i, p := range c.palettes {
		presetData[i] = toPaletteData(p)
	}
	return pipeline.NewChromeData(toPaletteData(active), presetData, c.cfg.disableClickPaging)
}
