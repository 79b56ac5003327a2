package pipeline

import "errors"

// Sentinel errors for pipeline operations.
var (
	// ErrResourceMissing indicates a referenced file could not be read from the
	// resource directory. Reported per reference; fatal only in strict mode.
	ErrResourceMissing = errors.New("referenced resource not found")

	// ErrUnresolvedReference indicates a local reference survived inlining
	// without being reported as missing.
	ErrUnresolvedReference = errors.New("local reference left after inlining")

	// ErrChromeRender indicates the reader chrome templates failed to render.
	ErrChromeRender = errors.New("reader chrome rendering failed")

	// ErrHTMLConversion indicates Markdown to HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// ErrDecode indicates the converter output could not be decoded to UTF-8.
	ErrDecode = errors.New("decoding converter output failed")
)
