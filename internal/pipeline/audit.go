package pipeline

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// imageSelector matches every image carrying a src attribute.
var imageSelector = cascadia.MustCompile("img[src]")

// ImageAudit classifies the image references of a document.
type ImageAudit struct {
	Local    []string // file references still pointing outside the document
	Remote   []string // network references (http, https, protocol-relative)
	Embedded int      // data URIs
}

// AuditImages parses htmlContent into a tree and classifies its img[src]
// references.
func AuditImages(htmlContent string) (*ImageAudit, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing document for audit: %w", err)
	}

	audit := &ImageAudit{}
	for _, n := range imageSelector.MatchAll(doc) {
		src := strings.TrimSpace(attr(n, "src"))
		switch {
		case strings.HasPrefix(strings.ToLower(src), "data:"):
			audit.Embedded++
		case IsLocalReference(src):
			audit.Local = append(audit.Local, src)
		case src != "" && !strings.HasPrefix(src, "#"):
			audit.Remote = append(audit.Remote, src)
		}
	}
	return audit, nil
}

// ExternalImageRefs returns the image references of htmlContent that still
// point to files outside the document.
func ExternalImageRefs(htmlContent string) []string {
	audit, err := AuditImages(htmlContent)
	if err != nil {
		return nil
	}
	return audit.Local
}

// attr returns the value of the named attribute, or "" if absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
