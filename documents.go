package doc2reader

import (
	"context"
	"path/filepath"
	"strings"
)

// DocumentConverter turns a source document into HTML on disk.
type DocumentConverter interface {
	// Check reports whether the converter can run, with
	// ErrConverterUnavailable when it cannot.
	Check(ctx context.Context) error

	// Convert writes the HTML rendition of sourcePath into outDir.
	Convert(ctx context.Context, sourcePath, outDir string) (*Conversion, error)
}

// Conversion locates the output of a DocumentConverter.
type Conversion struct {
	HTMLPath    string // primary HTML file
	ResourceDir string // directory relative image references resolve against
}

// markdownExtensions are rendered in-process instead of through LibreOffice.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// IsMarkdown reports whether path is converted by the Markdown converter.
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}
