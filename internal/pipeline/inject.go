package pipeline

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Blocks holds the three chrome fragments inserted at document boundaries.
type Blocks struct {
	Head  string // after the opening head tag
	Upper string // after the opening body tag
	Lower string // before the closing body tag
}

// BoundaryInjector defines the contract for inserting chrome into HTML.
type BoundaryInjector interface {
	Inject(ctx context.Context, htmlContent string, blocks Blocks) (string, error)
}

// BoundaryInjection inserts Blocks at the first <head>, first <body> and
// first </body> of a document. Tags are found with the HTML tokenizer, so
// case, attributes and whitespace are tolerated and the matched tags are
// never modified. A boundary that is not found is skipped.
type BoundaryInjection struct{}

// boundaries holds byte offsets of the injection points, -1 when absent.
type boundaries struct {
	headOpen  int // just after the first <head> start tag
	bodyOpen  int // just after the first <body> start tag
	bodyClose int // at the first </body> end tag
}

// findBoundaries walks the tokens of htmlContent and records where the
// blocks go. Quoted attribute values, comments and script text cannot
// produce a boundary.
func findBoundaries(htmlContent string) boundaries {
	found := boundaries{headOpen: -1, bodyOpen: -1, bodyClose: -1}

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return found
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch {
			case string(name) == "head" && found.headOpen < 0:
				found.headOpen = offset
			case string(name) == "body" && found.bodyOpen < 0:
				found.bodyOpen = offset
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "body" && found.bodyClose < 0 {
				found.bodyClose = start
				return found
			}
		}
	}
}

// insertion is a block to splice in at a byte offset of the original text.
type insertion struct {
	pos   int
	block string
}

// Inject returns htmlContent with the non-empty blocks inserted.
func (b *BoundaryInjection) Inject(ctx context.Context, htmlContent string, blocks Blocks) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Offsets are taken on the original text so one insertion cannot shift
	// the match of another.
	at := findBoundaries(htmlContent)
	var ins []insertion
	if at.headOpen >= 0 && blocks.Head != "" {
		ins = append(ins, insertion{pos: at.headOpen, block: blocks.Head})
	}
	if at.bodyOpen >= 0 && blocks.Upper != "" {
		ins = append(ins, insertion{pos: at.bodyOpen, block: blocks.Upper})
	}
	if at.bodyClose >= 0 && blocks.Lower != "" {
		ins = append(ins, insertion{pos: at.bodyClose, block: blocks.Lower})
	}
	if len(ins) == 0 {
		return htmlContent, nil
	}

	// Stable: for <body></body> the upper block must precede the lower one.
	slices.SortStableFunc(ins, func(a, b insertion) int {
		return cmp.Compare(a.pos, b.pos)
	})

	var sb strings.Builder
	size := len(htmlContent)
	for _, in := range ins {
		size += len(in.block)
	}
	sb.Grow(size)

	last := 0
	for _, in := range ins {
		sb.WriteString(htmlContent[last:in.pos])
		sb.WriteString(in.block)
		last = in.pos
	}
	sb.WriteString(htmlContent[last:])

	return sb.String(), nil
}

// Compile-time interface check.
var _ BoundaryInjector = (*BoundaryInjection)(nil)
