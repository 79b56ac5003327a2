package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Context carries the per-run values the stages need. It replaces any
// package-level state: one Context per document.
type Context struct {
	ResourceDir string       // directory the converter wrote its resources to
	Blocks      Blocks       // rendered chrome
	Logger      *slog.Logger // nil discards
}

// Report summarizes a run for the caller.
type Report struct {
	Inlined int
	Missing []MissingResource
	Generic []string // references embedded with GenericMediaType
	Remote  []string // network references left untouched
	Scans   int
}

// Output is the result of a successful run.
type Output struct {
	HTML   string
	Report *Report
}

// Pipeline sequences Sanitizer, Injector and Inliner over one document.
// The order is fixed and no stage can be skipped.
type Pipeline struct {
	Sanitizer   Sanitizer
	Injector    BoundaryInjector
	Inliner     ResourceInliner
	NewResolver func(resourceDir string) (ResourceResolver, error)
}

// New returns a Pipeline wired with the default stages.
func New() *Pipeline {
	return &Pipeline{
		Sanitizer: &ContentSanitizer{},
		Injector:  &BoundaryInjection{},
		Inliner:   &ImageInliner{},
		NewResolver: func(dir string) (ResourceResolver, error) {
			return NewFileResolver(dir)
		},
	}
}

// Run transforms the raw converter output into the final reader document.
// Missing resources do not fail the run; they are logged and listed in the
// report. Returns ErrUnresolvedReference if a local image reference survives
// inlining without being reported.
func (p *Pipeline) Run(ctx context.Context, pc *Context, raw string) (*Output, error) {
	if pc == nil {
		pc = &Context{}
	}
	logger := pc.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	doc := p.Sanitizer.Sanitize(raw)
	logger.Debug("sanitized document", "bytes", len(doc), "elapsed", time.Since(start))

	start = time.Now()
	doc, err := p.Injector.Inject(ctx, doc, pc.Blocks)
	if err != nil {
		return nil, fmt.Errorf("injecting reader chrome: %w", err)
	}
	logger.Debug("injected reader chrome", "bytes", len(doc), "elapsed", time.Since(start))

	resolver, err := p.NewResolver(pc.ResourceDir)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	doc, inlined, err := p.Inliner.Inline(ctx, doc, resolver)
	if err != nil {
		return nil, fmt.Errorf("inlining resources: %w", err)
	}
	logger.Debug("inlined resources",
		"inlined", len(inlined.Inlined),
		"missing", len(inlined.Missing),
		"scans", inlined.Scans,
		"elapsed", time.Since(start))

	report := &Report{
		Inlined: len(inlined.Inlined),
		Missing: inlined.Missing,
		Scans:   inlined.Scans,
	}
	for _, ref := range inlined.Generic() {
		report.Generic = append(report.Generic, ref.Raw)
		logger.Warn("unknown media type, embedded as generic binary",
			"ref", ref.Raw, "type", GenericMediaType)
	}
	for _, m := range inlined.Missing {
		logger.Warn("resource not found, reference left as is", "ref", m.Ref, "err", m.Err)
	}

	audit, err := AuditImages(doc)
	if err != nil {
		return nil, err
	}
	if err := checkAudit(audit, inlined.Missing); err != nil {
		return nil, err
	}
	for _, ref := range audit.Remote {
		logger.Warn("remote image left as is", "ref", ref)
	}
	report.Remote = audit.Remote

	return &Output{HTML: doc, Report: report}, nil
}

// checkAudit verifies every local reference left in the document was
// reported missing.
func checkAudit(audit *ImageAudit, missing []MissingResource) error {
	reported := make(map[string]bool, len(missing))
	for _, m := range missing {
		reported[strings.TrimSpace(m.Ref)] = true
	}
	for _, ref := range audit.Local {
		if !reported[ref] {
			return fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
		}
	}
	return nil
}
