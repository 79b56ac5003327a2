package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Sanitizer defines the contract for neutralizing author styling.
type Sanitizer interface {
	Sanitize(htmlContent string) string
}

// ContentSanitizer rewrites color and size controls in the author markup to
// inert names so the injected palette wins:
//
//	color="…"      -> coolor="…"
//	size="…"       -> sizeIs="…"
//	font-size="…"  -> nope="…"
//	font-size: …   -> nope: …   (style attributes and <style> elements)
//
// Matching is done on attribute and declaration names, so bgcolor or
// data-size are left untouched. The rewrite is lossy and idempotent.
// Text outside tags and style sheets is copied byte for byte.
type ContentSanitizer struct{}

// attributeRenames maps lower-cased attribute names to their inert replacement.
var attributeRenames = map[string]string{
	"color":     "coolor",
	"size":      "sizeIs",
	"font-size": "nope",
}

// fontSizeDeclPattern matches a font-size declaration name in CSS text,
// including one right after a comment.
// Captures: 1=preceding delimiter, 2=colon with optional spacing.
var fontSizeDeclPattern = regexp.MustCompile(`(?i)(^|[\s;{"'/])font-size(\s*:)`)

// Sanitize returns htmlContent with author color and size controls neutralized.
func (s *ContentSanitizer) Sanitize(htmlContent string) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	var b strings.Builder
	b.Grow(len(htmlContent))

	consumed := 0
	inStyle := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// Copy before TagName, which lower-cases the underlying buffer.
		raw := string(z.Raw())
		consumed += len(raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			inStyle = tt == html.StartTagToken && string(name) == "style"
			b.WriteString(rewriteStartTag(raw))
		case html.EndTagToken:
			inStyle = false
			b.WriteString(raw)
		case html.TextToken:
			if inStyle {
				raw = neutralizeCSS(raw)
			}
			b.WriteString(raw)
		default:
			b.WriteString(raw)
		}
	}

	// The tokenizer may stop before the end of malformed input.
	if consumed < len(htmlContent) {
		b.WriteString(htmlContent[consumed:])
	}

	return b.String()
}

// neutralizeCSS renames font-size declarations in CSS text.
func neutralizeCSS(css string) string {
	return fontSizeDeclPattern.ReplaceAllString(css, "${1}nope${2}")
}

// attrSpan locates one attribute inside a raw start tag.
type attrSpan struct {
	nameStart, nameEnd int
	valStart, valEnd   int // both -1 when the attribute has no value
}

// rewriteStartTag renames neutralized attributes and cleans style values
// inside one raw start tag, leaving every other byte unchanged.
func rewriteStartTag(raw string) string {
	spans := scanAttributes(raw)
	if len(spans) == 0 {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw) + 8)

	last := 0
	for _, sp := range spans {
		name := strings.ToLower(raw[sp.nameStart:sp.nameEnd])
		if repl, ok := attributeRenames[name]; ok {
			b.WriteString(raw[last:sp.nameStart])
			b.WriteString(repl)
			last = sp.nameEnd
		}
		if name == "style" && sp.valStart >= 0 {
			b.WriteString(raw[last:sp.valStart])
			b.WriteString(neutralizeCSS(raw[sp.valStart:sp.valEnd]))
			last = sp.valEnd
		}
	}
	b.WriteString(raw[last:])

	return b.String()
}

// scanAttributes lexes the attributes of a raw start tag such as
// `<p class=x color="red">`. Attribute values exclude their quotes.
func scanAttributes(raw string) []attrSpan {
	n := len(raw)
	i := 1 // skip '<'
	for i < n && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	var spans []attrSpan
	for i < n {
		for i < n && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= n || raw[i] == '>' {
			break
		}

		sp := attrSpan{nameStart: i, valStart: -1, valEnd: -1}
		// A leading '=' belongs to the name.
		i++
		for i < n && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		sp.nameEnd = i

		j := i
		for j < n && isTagSpace(raw[j]) {
			j++
		}
		if j < n && raw[j] == '=' {
			j++
			for j < n && isTagSpace(raw[j]) {
				j++
			}
			switch {
			case j < n && (raw[j] == '"' || raw[j] == '\''):
				quote := raw[j]
				j++
				sp.valStart = j
				for j < n && raw[j] != quote {
					j++
				}
				sp.valEnd = j
				if j < n {
					j++
				}
			default:
				sp.valStart = j
				for j < n && !isTagSpace(raw[j]) && raw[j] != '>' {
					j++
				}
				sp.valEnd = j
			}
			i = j
		}

		spans = append(spans, sp)
	}

	return spans
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Compile-time interface check.
var _ Sanitizer = (*ContentSanitizer)(nil)
