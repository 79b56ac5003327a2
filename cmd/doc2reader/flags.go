package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-doc2reader"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// paletteFlags holds the palette selection and its per-field overrides.
type paletteFlags struct {
	name       string
	background string
	foreground string
	fontSize   string
	lineHeight string
}

// converterFlags holds document converter flags.
type converterFlags struct {
	soffice string
	timeout string
	isolate bool
}

// readerFlags holds flags shaping the generated reader.
type readerFlags struct {
	strict        bool
	noClickPaging bool
	assetPath     string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	palette   paletteFlags
	converter converterFlags
	reader    readerFlags
	snapshot  string

	// overrides records the palette fields set on the command line, so an
	// explicitly empty value is still an override.
	overrides doc2reader.PaletteUpdate
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

// addPaletteFlags adds palette flags to a FlagSet.
func addPaletteFlags(fs *flag.FlagSet, f *paletteFlags) {
	fs.StringVarP(&f.name, "palette", "p", "", "palette applied on load")
	fs.StringVar(&f.background, "bg", "", "background color override")
	fs.StringVar(&f.foreground, "fg", "", "text color override")
	fs.StringVar(&f.fontSize, "font-size", "", "font size override (e.g. 22px)")
	fs.StringVar(&f.lineHeight, "line-height", "", "line height override (e.g. 1.6)")
}

// addConverterFlags adds document converter flags to a FlagSet.
func addConverterFlags(fs *flag.FlagSet, f *converterFlags) {
	fs.StringVar(&f.soffice, "soffice", "", "LibreOffice executable (default: soffice)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g. 90s, 5m)")
	fs.BoolVar(&f.isolate, "isolated-profile", false, "run LibreOffice with a throwaway profile")
}

// addReaderFlags adds reader flags to a FlagSet.
func addReaderFlags(fs *flag.FlagSet, f *readerFlags) {
	fs.BoolVar(&f.strict, "strict", false, "fail when an image cannot be embedded")
	fs.BoolVar(&f.noClickPaging, "no-click-paging", false, "disable page turning by click")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom reader template directory")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addPaletteFlags(fs, &f.palette)
	addConverterFlags(fs, &f.converter)
	addReaderFlags(fs, &f.reader)
	fs.StringVar(&f.snapshot, "snapshot", "", "also write a PNG preview of the first page")

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if fs.Changed("bg") {
		f.overrides.Background = &f.palette.background
	}
	if fs.Changed("fg") {
		f.overrides.Foreground = &f.palette.foreground
	}
	if fs.Changed("font-size") {
		f.overrides.FontSize = &f.palette.fontSize
	}
	if fs.Changed("line-height") {
		f.overrides.LineHeight = &f.palette.lineHeight
	}

	return f, fs.Args(), nil
}

// palettesFlags holds flags for the palettes command.
type palettesFlags struct {
	config string
	json   bool
}

// parsePalettesFlags parses palettes command flags.
func parsePalettesFlags(args []string) (*palettesFlags, error) {
	fs := flag.NewFlagSet("palettes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &palettesFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print JSON")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: palettes takes no arguments", ErrUsage)
	}
	return f, nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	soffice string
	json    bool
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &doctorFlags{}
	fs.StringVar(&f.soffice, "soffice", "", "LibreOffice executable to check")
	fs.BoolVar(&f.json, "json", false, "print JSON")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return f, nil
}
