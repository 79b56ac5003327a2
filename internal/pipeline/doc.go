// Package pipeline implements the HTML transformation that turns converter
// output into a self-contained reader.
//
// The pipeline runs three stages in a fixed order over a single text buffer:
//   - Sanitize: neutralize author color and size markup so it cannot fight
//     the injected palette
//   - Inject: insert the reader chrome right after <head>, right after
//     <body> and right before </body>
//   - Inline: replace every local image reference with a base64 data URI
//
// Each stage returns a new buffer. The only state shared across stages is the
// run Context (resource directory, chrome blocks, logger).
//
// Document conversion (office formats through LibreOffice, Markdown through
// Goldmark) happens before the pipeline and is driven by the root doc2reader
// package. This package only sees HTML text and the directory holding its
// resources.
package pipeline
