package doc2reader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aymerick/douceur/parser"

	"github.com/alnah/go-doc2reader/internal/pipeline"
)

// DefaultPaletteName is the palette applied when none is requested.
const DefaultPaletteName = "dark"

// maxPaletteNameLength bounds palette names shown in the reader menu.
const maxPaletteNameLength = 50

// Palette describes one reading theme.
type Palette struct {
	Name       string
	Background string // page background, any CSS color
	Foreground string // text and border color, any CSS color
	FontSize   string // CSS length, e.g. "20px"
	LineHeight string // CSS line-height, e.g. "1.5"
}

// PaletteUpdate is a partial change to a Palette. Nil fields leave the
// current value unchanged.
type PaletteUpdate struct {
	Background *string // replaces Palette.Background
	Foreground *string // replaces Palette.Foreground
	FontSize   *string // replaces Palette.FontSize
	LineHeight *string // replaces Palette.LineHeight
}

// IsZero reports whether the update changes nothing.
func (u PaletteUpdate) IsZero() bool {
	return u.Background == nil && u.Foreground == nil && u.FontSize == nil && u.LineHeight == nil
}

// With returns a copy of p with the non-nil fields of u applied.
func (p Palette) With(u PaletteUpdate) Palette {
	if u.Background != nil {
		p.Background = *u.Background
	}
	if u.Foreground != nil {
		p.Foreground = *u.Foreground
	}
	if u.FontSize != nil {
		p.FontSize = *u.FontSize
	}
	if u.LineHeight != nil {
		p.LineHeight = *u.LineHeight
	}
	return p
}

// Validate checks that every value is a single, plain CSS value for its
// property. Values end up in a style sheet, so anything able to close a
// declaration or a rule is rejected.
func (p Palette) Validate() error {
	if err := validatePaletteName(p.Name); err != nil {
		return err
	}

	fields := []struct {
		field    string
		property string
		value    string
	}{
		{"background", "background", p.Background},
		{"foreground", "color", p.Foreground},
		{"fontSize", "font-size", p.FontSize},
		{"lineHeight", "line-height", p.LineHeight},
	}
	for _, f := range fields {
		if err := validateCSSValue(f.property, f.value); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidPalette, p.Name, f.field, err)
		}
	}
	return nil
}

// validatePaletteName accepts letters, digits, '-' and '_'.
func validatePaletteName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPalette)
	}
	if len(name) > maxPaletteNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidPalette, maxPaletteNameLength)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: name %q contains %q", ErrInvalidPalette, name, r)
		}
	}
	return nil
}

// validateCSSValue parses "property: value" and requires exactly one
// declaration of that property, without !important.
func validateCSSValue(property, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fmt.Errorf("empty value")
	}
	if strings.ContainsAny(value, ";{}<>\\\n\r") {
		return fmt.Errorf("value %q contains a forbidden character", value)
	}

	decls, err := parser.ParseDeclarations(property + ": " + v)
	if err != nil {
		return fmt.Errorf("value %q: %v", value, err)
	}
	if len(decls) != 1 || decls[0] == nil {
		return fmt.Errorf("value %q is not a single declaration", value)
	}
	d := decls[0]
	if !strings.EqualFold(strings.TrimSpace(d.Property), property) || strings.TrimSpace(d.Value) == "" {
		return fmt.Errorf("value %q is not a %s value", value, property)
	}
	if d.Important {
		return fmt.Errorf("value %q must not use !important", value)
	}
	return nil
}

// presets are the built-in palettes, in menu order.
var presets = []Palette{
	{Name: "dark", Background: "#1e1e1e", Foreground: "#effdff", FontSize: "20px", LineHeight: "1.5"},
	{Name: "light", Background: "#fdfdfd", Foreground: "#1e1e1e", FontSize: "20px", LineHeight: "1.5"},
	{Name: "sepia", Background: "#f4ecd8", Foreground: "#5b4636", FontSize: "20px", LineHeight: "1.6"},
	{Name: "contrast", Background: "#000000", Foreground: "#ffffff", FontSize: "22px", LineHeight: "1.5"},
}

// Presets returns a copy of the built-in palettes.
func Presets() []Palette {
	return slices.Clone(presets)
}

// DefaultPalette returns the palette applied when none is requested.
func DefaultPalette() Palette {
	p, _ := LookupPalette(presets, DefaultPaletteName)
	return p
}

// LookupPalette finds a palette by name, ignoring case.
// Returns ErrUnknownPalette if no palette matches.
func LookupPalette(palettes []Palette, name string) (Palette, error) {
	for _, p := range palettes {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// PaletteNames returns the names of palettes in order.
func PaletteNames(palettes []Palette) []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}

// mergePalettes returns base followed by extra; an extra palette replaces a
// base palette of the same name in place.
func mergePalettes(base, extra []Palette) []Palette {
	out := slices.Clone(base)
	for _, p := range extra {
		i := slices.IndexFunc(out, func(q Palette) bool { return strings.EqualFold(q.Name, p.Name) })
		if i >= 0 {
			out[i] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// toPaletteData converts a Palette to the shape consumed by the reader script.
func toPaletteData(p Palette) pipeline.PaletteData {
	return pipeline.PaletteData{
		Name:       p.Name,
		Background: p.Background,
		Foreground: p.Foreground,
		FontSize:   p.FontSize,
		LineHeight: p.LineHeight,
	}
}
