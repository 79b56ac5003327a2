package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/alnah/go-doc2reader"
)

// paletteEntry is the JSON shape of one listed palette.
type paletteEntry struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	FontSize   string `json:"fontSize"`
	LineHeight string `json:"lineHeight"`
	Default    bool   `json:"default"`
}

// runPalettesCmd lists the palettes a convert run with the same config
// could apply.
func runPalettesCmd(args []string, env *Environment) error {
	flags, err := parsePalettesFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	s, err := mergeSettings(cfg, &convertFlags{}, env)
	if err != nil {
		return err
	}

	opts := buildOptions(s, env)
	if s.palette != "" {
		opts = append(opts, doc2reader.WithDefaultPalette(s.palette))
	}
	conv, err := env.NewConverter(opts...)
	if err != nil {
		return withPaletteHint(err, append(doc2reader.Presets(), s.palettes...))
	}
	defer conv.Close()

	active := s.palette
	if active == "" {
		active = doc2reader.DefaultPaletteName
	}

	entries := make([]paletteEntry, 0, len(conv.Palettes()))
	for _, p := range conv.Palettes() {
		entries = append(entries, paletteEntry{
			Name:       p.Name,
			Background: p.Background,
			Foreground: p.Foreground,
			FontSize:   p.FontSize,
			LineHeight: p.LineHeight,
			Default:    strings.EqualFold(p.Name, active),
		})
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tBACKGROUND\tFOREGROUND\tFONT SIZE\tLINE HEIGHT")
	for _, e := range entries {
		mark := " "
		if e.Default {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\n", mark, e.Name, e.Background, e.Foreground, e.FontSize, e.LineHeight)
	}
	return tw.Flush()
}
