package pipeline

import (
	"context"
	"errors"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// inlinedMarkers temporarily replace the tag name of processed references
// so a scan never visits them twice. HTML parsers treat <image> as <img>,
// so both names are image tags.
var inlinedMarkers = map[string]string{
	"img":   "doc2reader-inlined-img",
	"image": "doc2reader-inlined-image",
}

// MissingResource is a reference that could not be embedded.
type MissingResource struct {
	Ref string
	Err error
}

// InlineReport describes what an Inline call did.
type InlineReport struct {
	Inlined []*ResourceReference
	Missing []MissingResource
	Scans   int // number of document scans, including the final empty one
}

// Generic returns the inlined references whose media type fell back to
// GenericMediaType.
func (r *InlineReport) Generic() []*ResourceReference {
	var refs []*ResourceReference
	for _, ref := range r.Inlined {
		if ref.Generic {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ResourceInliner defines the contract for embedding external references.
type ResourceInliner interface {
	Inline(ctx context.Context, htmlContent string, resolver ResourceResolver) (string, *InlineReport, error)
}

// ImageInliner replaces the src of every local <img> (or <image>) reference
// with a data URI.
//
// Each scan finds the first unprocessed local image, resolves it, rewrites
// its src in place and renames the tag to its entry in inlinedMarkers.
// References that cannot be resolved are renamed too, keep their src, and
// are reported as missing. Scanning stops when no unprocessed reference is
// left; each marker is then turned back into its tag name. Every other byte
// of the tag is preserved.
type ImageInliner struct{}

// imageRef locates an unprocessed local image tag in the document.
type imageRef struct {
	tagStart int      // offset of '<'
	name     string   // lower-cased tag name, img or image
	raw      string   // raw start tag
	src      attrSpan // src attribute inside raw
	value    string   // src with character references decoded
}

// Inline embeds every local image reference found in htmlContent.
// Only context cancellation and resolver errors other than
// ErrResourceMissing abort the run.
func (i *ImageInliner) Inline(ctx context.Context, htmlContent string, resolver ResourceResolver) (string, *InlineReport, error) {
	report := &InlineReport{}
	doc := htmlContent
	from := 0
	modified := false

	for {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		report.Scans++
		ref, ok := nextLocalImage(doc, from)
		if !ok {
			break
		}

		src := ""
		resolved, err := resolver.Resolve(ctx, ref.value)
		switch {
		case err == nil:
			src = resolved.DataURI()
			report.Inlined = append(report.Inlined, resolved)
		case errors.Is(err, ErrResourceMissing):
			report.Missing = append(report.Missing, MissingResource{Ref: ref.value, Err: err})
		default:
			return "", nil, err
		}

		tag := markInlined(ref, src)
		doc = doc[:ref.tagStart] + tag + doc[ref.tagStart+len(ref.raw):]
		// Everything before this tag has been scanned already.
		from = ref.tagStart + len(tag)
		modified = true
	}

	if modified {
		for name, marker := range inlinedMarkers {
			doc = strings.ReplaceAll(doc, "<"+marker, "<"+name)
		}
	}

	return doc, report, nil
}

// markInlined renames the image tag to its marker and, when src is not
// empty, replaces the src attribute value.
func markInlined(ref imageRef, src string) string {
	raw := ref.raw
	marker := inlinedMarkers[ref.name]
	nameEnd := 1 + len(ref.name)

	var b strings.Builder
	b.Grow(len(raw) + len(src) + len(marker))

	b.WriteString("<")
	b.WriteString(marker)
	if src == "" {
		b.WriteString(raw[nameEnd:])
		return b.String()
	}
	// Media types and base64 need no quoting or escaping.
	b.WriteString(raw[nameEnd:ref.src.valStart])
	b.WriteString(src)
	b.WriteString(raw[ref.src.valEnd:])
	return b.String()
}

// nextLocalImage returns the first img or image start tag at or after from
// whose src is a local reference.
func nextLocalImage(doc string, from int) (imageRef, bool) {
	z := nethtml.NewTokenizer(strings.NewReader(doc[from:]))

	offset := from
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			return imageRef{}, false
		}
		// Copy before TagName, which lower-cases the underlying buffer.
		raw := string(z.Raw())
		start := offset
		offset += len(raw)

		if tt != nethtml.StartTagToken && tt != nethtml.SelfClosingTagToken {
			continue
		}
		tagName, _ := z.TagName()
		name := string(tagName)
		if _, ok := inlinedMarkers[name]; !ok {
			continue
		}

		for _, sp := range scanAttributes(raw) {
			if sp.valStart < 0 || !strings.EqualFold(raw[sp.nameStart:sp.nameEnd], "src") {
				continue
			}
			value := html.UnescapeString(raw[sp.valStart:sp.valEnd])
			if IsLocalReference(value) {
				return imageRef{tagStart: start, name: name, raw: raw, src: sp, value: value}, true
			}
			break // first src wins, as in the browser
		}
	}
}

// Compile-time interface check.
var _ ResourceInliner = (*ImageInliner)(nil)
