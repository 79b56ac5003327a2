package pipeline

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-doc2reader/internal/assets"
)

// Reader behavior defaults.
const (
	// DefaultPageRatio is the share of the viewport height scrolled per page.
	DefaultPageRatio = 0.9

	// DefaultFullscreenKey toggles fullscreen in the reader.
	DefaultFullscreenKey = "f"
)

// DefaultResizeDelays are the delays in milliseconds after a fullscreen
// toggle at which page statistics are recomputed.
var DefaultResizeDelays = []int{100, 500, 1500}

// PaletteData is the palette shape consumed by the reader script.
type PaletteData struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	FontSize   string `json:"fontSize"`
	LineHeight string `json:"lineHeight"`
}

// ChromeData holds the values rendered into the chrome templates.
type ChromeData struct {
	Active             PaletteData   // applied on load
	Presets            []PaletteData // cycled by the menu button
	DisableClickPaging bool
	PageRatio          float64
	FullscreenKey      string
	ResizeDelays       []int
}

// NewChromeData returns ChromeData with the default reader behavior.
func NewChromeData(active PaletteData, presets []PaletteData, disableClickPaging bool) ChromeData {
	if presets == nil {
		presets = []PaletteData{} // rendered as [] rather than null
	}
	return ChromeData{
		Active:             active,
		Presets:            presets,
		DisableClickPaging: disableClickPaging,
		PageRatio:          DefaultPageRatio,
		FullscreenKey:      DefaultFullscreenKey,
		ResizeDelays:       DefaultResizeDelays,
	}
}

// ChromeRenderer renders a template set into injectable Blocks.
type ChromeRenderer struct {
	head  *template.Template
	upper *template.Template
	lower *template.Template
}

// NewChromeRenderer parses the three templates of ts.
// Returns error if any template cannot be parsed.
func NewChromeRenderer(ts *assets.TemplateSet) (*ChromeRenderer, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrChromeRender)
	}

	parse := func(name, content string) (*template.Template, error) {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s template: %v", ErrChromeRender, name, err)
		}
		return tmpl, nil
	}

	head, err := parse("head", ts.Head)
	if err != nil {
		return nil, err
	}
	upper, err := parse("upper", ts.Upper)
	if err != nil {
		return nil, err
	}
	lower, err := parse("lower", ts.Lower)
	if err != nil {
		return nil, err
	}

	return &ChromeRenderer{head: head, upper: upper, lower: lower}, nil
}

// Render executes the templates with data.
func (r *ChromeRenderer) Render(data ChromeData) (Blocks, error) {
	exec := func(tmpl *template.Template) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("%w: %v", ErrChromeRender, err)
		}
		return buf.String(), nil
	}

	var blocks Blocks
	var err error
	if blocks.Head, err = exec(r.head); err != nil {
		return Blocks{}, err
	}
	if blocks.Upper, err = exec(r.upper); err != nil {
		return Blocks{}, err
	}
	if blocks.Lower, err = exec(r.lower); err != nil {
		return Blocks{}, err
	}

	return blocks, nil
}
