// Package doc2reader converts office documents into a single self-contained
// HTML "reader": paginated, themeable and free of external resource files.
//
// # Quick Start
//
// Create a converter, convert a document, and close when done:
//
//	conv, err := doc2reader.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, doc2reader.Input{
//	    SourcePath: "report.docx",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Name, result.HTML, 0o644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Document to HTML through an external converter (LibreOffice), or
//     Goldmark for Markdown sources
//  2. Sanitize: author color and size markup is neutralized
//  3. Inject: viewport, palette style slot, reader chrome and script
//  4. Inline: every local image becomes a base64 data URI
//
// The converter's working directory is removed on every exit path.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := doc2reader.NewConverter(
//	    doc2reader.WithSofficeBinary("/opt/libreoffice/program/soffice"),
//	    doc2reader.WithTimeout(5 * time.Minute),
//	    doc2reader.WithStrictResources(true),
//	)
//
// Per-conversion options are passed via Input:
//
//	bg := "#000000"
//	result, err := conv.Convert(ctx, doc2reader.Input{
//	    SourcePath: "notes.odt",
//	    Palette:    "sepia",
//	    Overrides:  doc2reader.PaletteUpdate{Background: &bg},
//	})
//
// # Palettes
//
// A palette sets the background, text color, font size and line height of
// the reader. Presets are dark (default), light, sepia and contrast; more can
// be added with WithPalettes. Every palette is embedded in the reader and the
// menu button cycles through them.
//
// # Custom Assets
//
// The reader chrome is made of three templates. Override them with
// WithAssetPath:
//
//	{basePath}/templates/default/{head,upper,lower}.html
//
// # Preview
//
// Snapshot renders a written reader in headless Chrome and returns a PNG of
// its first page. The browser is started on first use and stopped by Close.
package doc2reader
