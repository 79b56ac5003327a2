package doc2reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doc2reader/internal/fileutil"
	"github.com/alnah/go-doc2reader/internal/pipeline"
)

// markdownConverter renders Markdown sources in-process with Goldmark.
// Images stay relative to the source, so ResourceDir is the source's directory.
type markdownConverter struct {
	html pipeline.HTMLConverter
}

func newMarkdownConverter() *markdownConverter {
	return &markdownConverter{html: pipeline.NewGoldmarkConverter()}
}

// Check always succeeds: Goldmark has no external dependency.
func (m *markdownConverter) Check(ctx context.Context) error {
	return ctx.Err()
}

// Convert writes <name>.html into outDir.
func (m *markdownConverter) Convert(ctx context.Context, sourcePath, outDir string) (*Conversion, error) {
	content, err := os.ReadFile(sourcePath) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrConversionFailed, sourcePath, err)
	}

	base := filepath.Base(sourcePath)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	htmlContent, err := m.html.ToHTML(ctx, string(content), title)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	htmlPath := filepath.Join(outDir, title+".html")
	if err := fileutil.WriteFileAtomic(htmlPath, []byte(htmlContent), 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	return &Conversion{
		HTMLPath:    htmlPath,
		ResourceDir: filepath.Dir(sourcePath),
	}, nil
}

var _ DocumentConverter = (*markdownConverter)(nil)
